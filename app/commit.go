package app

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// CommitStore keeps two scratch pads on top of the committed state. Check
// and deliver calls of one block never see each other's writes and both see
// the state of the last commit.
type CommitStore struct {
	committed escrowd.CommitKVStore
	deliver   escrowd.KVCacheWrap
	check     escrowd.KVCacheWrap
}

// NewCommitStore loads the latest version of the store. It panics if the
// store cannot be loaded.
func NewCommitStore(store escrowd.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(errors.Wrap(err, "load latest version"))
	}
	cs := &CommitStore{committed: store}
	cs.rewrap()
	return cs
}

func (cs *CommitStore) rewrap() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and the hash of the last commit.
func (cs *CommitStore) CommitInfo() (escrowd.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists everything delivered since the last commit. Pending check
// writes are dropped.
func (cs *CommitStore) Commit() (escrowd.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return escrowd.CommitID{}, errors.Wrap(err, "flush deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.rewrap()
	return id, nil
}

// CheckStore is used by CheckTx.
func (cs *CommitStore) CheckStore() escrowd.CacheableKVStore {
	return cs.check
}

// DeliverStore is used by DeliverTx and InitChain.
func (cs *CommitStore) DeliverStore() escrowd.CacheableKVStore {
	return cs.deliver
}

// chainIDKey cannot collide with a bucket key, bucket names have no colon.
var chainIDKey = []byte("_esc:chainID")

// loadChainID returns the stored chain id, an empty string before genesis.
func loadChainID(kv escrowd.ReadOnlyKVStore) (string, error) {
	raw, err := kv.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID stores the chain id once. It cannot be changed afterwards.
func saveChainID(kv escrowd.KVStore, chainID string) error {
	if !escrowd.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %q", chainID)
	}
	switch exists, err := kv.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis and cannot be modified")
	}
	return errors.Wrap(kv.Set(chainIDKey, []byte(chainID)), "save chain id")
}

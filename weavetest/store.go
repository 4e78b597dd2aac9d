package weavetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// Use it instead of MemStore when the exact production storage is wanted.
func CommitKVStore(t testing.TB) (db escrowd.CommitKVStore, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "escrowd")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}

	cs := iavl.NewCommitStore(dbpath, "db")
	if err := cs.LoadLatestVersion(); err != nil {
		t.Fatalf("cannot load store: %s", err)
	}
	return cs, func() { os.RemoveAll(dbpath) }
}

// FailingStore passes all calls to the wrapped store until FailAfter
// writes succeeded. Every following Set or Delete returns ErrDatabase.
type FailingStore struct {
	escrowd.KVStore
	FailAfter int

	writes int
}

var _ escrowd.KVStore = (*FailingStore)(nil)

func (s *FailingStore) Set(key, value []byte) error {
	if err := s.count(); err != nil {
		return err
	}
	return s.KVStore.Set(key, value)
}

func (s *FailingStore) Delete(key []byte) error {
	if err := s.count(); err != nil {
		return err
	}
	return s.KVStore.Delete(key)
}

// Writes returns the number of write calls, failed ones included.
func (s *FailingStore) Writes() int {
	return s.writes
}

func (s *FailingStore) count() error {
	s.writes++
	if s.writes > s.FailAfter {
		return errors.Wrapf(errors.ErrDatabase, "injected failure at write %d", s.writes)
	}
	return nil
}

// FaultDecorator hands a FailingStore to the next handler. Place it after
// a savepoint to check that a broken write leaves no trace.
type FaultDecorator struct {
	FailAfter int
}

var _ escrowd.Decorator = FaultDecorator{}

func (d FaultDecorator) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Checker) (*escrowd.CheckResult, error) {
	return next.Check(ctx, &FailingStore{KVStore: db, FailAfter: d.FailAfter}, tx)
}

func (d FaultDecorator) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx, next escrowd.Deliverer) (*escrowd.DeliverResult, error) {
	return next.Deliver(ctx, &FailingStore{KVStore: db, FailAfter: d.FailAfter}, tx)
}

// FailingCacheStore hands out cache wraps that fail like a FailingStore
// once FailAfter writes went into them. With FailWrite set flushing a cache
// wrap fails as well.
type FailingCacheStore struct {
	escrowd.CacheableKVStore
	FailAfter int
	FailWrite bool

	discards int
}

var _ escrowd.CacheableKVStore = (*FailingCacheStore)(nil)

func (s *FailingCacheStore) CacheWrap() escrowd.KVCacheWrap {
	c := s.CacheableKVStore.CacheWrap()
	return &failingCache{
		FailingStore: FailingStore{KVStore: c, FailAfter: s.FailAfter},
		cache:        c,
		parent:       s,
	}
}

// Discards returns how many cache wraps were dropped.
func (s *FailingCacheStore) Discards() int {
	return s.discards
}

type failingCache struct {
	FailingStore
	cache  escrowd.KVCacheWrap
	parent *FailingCacheStore
}

var _ escrowd.KVCacheWrap = (*failingCache)(nil)

func (c *failingCache) CacheWrap() escrowd.KVCacheWrap {
	return c.cache.CacheWrap()
}

func (c *failingCache) Write() error {
	if c.parent.FailWrite {
		return errors.Wrap(errors.ErrDatabase, "injected failure on flush")
	}
	return c.cache.Write()
}

func (c *failingCache) Discard() {
	c.parent.discards++
	c.cache.Discard()
}

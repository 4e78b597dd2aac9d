package iavl

import (
	"testing"

	"github.com/iov-one/escrowd/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func TestCommitStoreVersions(t *testing.T) {
	db := dbm.NewMemDB()
	cs := NewCommitStoreFromDB(db)
	require.NoError(t, cs.LoadLatestVersion())

	id, err := cs.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), id.Version)

	cache := cs.CacheWrap()
	require.NoError(t, cache.Set([]byte("listing"), []byte("one")))
	require.NoError(t, cache.Set([]byte("contract"), []byte("two")))
	require.NoError(t, cache.Write())

	first, err := cs.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.NotEmpty(t, first.Hash)

	val, err := cs.Get([]byte("listing"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), val)

	cache = cs.CacheWrap()
	require.NoError(t, cache.Delete([]byte("listing")))
	require.NoError(t, cache.Write())
	second, err := cs.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)

	// a fresh store on the same db loads the last commit
	reloaded := NewCommitStoreFromDB(db)
	require.NoError(t, reloaded.LoadLatestVersion())
	id, err = reloaded.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, second, id)

	val, err = reloaded.Get([]byte("listing"))
	require.NoError(t, err)
	assert.Nil(t, val)
	val, err = reloaded.Get([]byte("contract"))
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), val)
}

func TestCommitStoreDiscard(t *testing.T) {
	cs := MockCommitStore()
	require.NoError(t, cs.LoadLatestVersion())

	cache := cs.CacheWrap()
	require.NoError(t, cache.Set([]byte("bfund"), []byte("10")))
	cache.Discard()

	_, err := cs.Commit()
	require.NoError(t, err)
	val, err := cs.Get([]byte("bfund"))
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestCommitStoreIterator(t *testing.T) {
	cs := MockCommitStore()
	require.NoError(t, cs.LoadLatestVersion())

	cache := cs.CacheWrap()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, cache.Set([]byte(k), []byte(k)))
	}
	require.NoError(t, cache.Write())
	_, err := cs.Commit()
	require.NoError(t, err)

	cache = cs.CacheWrap()
	require.NoError(t, cache.Delete([]byte("b")))
	it, err := cache.ReverseIterator(nil, nil)
	require.NoError(t, err)
	models, err := store.ReadAll(it)
	require.NoError(t, err)

	require.Len(t, models, 2)
	assert.Equal(t, []byte("c"), models[0].Key)
	assert.Equal(t, []byte("a"), models[1].Key)
}

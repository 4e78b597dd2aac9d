package store

import (
	"testing"

	"github.com/iov-one/escrowd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheWrapReadsThrough(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("listing"), []byte("price=100")))

	cache := base.CacheWrap()
	val, err := cache.Get([]byte("listing"))
	require.NoError(t, err)
	assert.Equal(t, []byte("price=100"), val)

	require.NoError(t, cache.Set([]byte("listing"), []byte("price=200")))
	require.NoError(t, cache.Set([]byte("holding"), []byte("asset")))

	// nothing leaks into the parent before Write
	val, err = base.Get([]byte("listing"))
	require.NoError(t, err)
	assert.Equal(t, []byte("price=100"), val)
	has, err := base.Has([]byte("holding"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, cache.Write())

	val, err = base.Get([]byte("listing"))
	require.NoError(t, err)
	assert.Equal(t, []byte("price=200"), val)
	has, err = base.Has([]byte("holding"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestCacheWrapDiscard(t *testing.T) {
	base := MemStore()
	require.NoError(t, base.Set([]byte("bfund"), []byte("10")))

	cache := base.CacheWrap()
	require.NoError(t, cache.Delete([]byte("bfund")))
	has, err := cache.Has([]byte("bfund"))
	require.NoError(t, err)
	assert.False(t, has)
	cache.Discard()

	val, err := base.Get([]byte("bfund"))
	require.NoError(t, err)
	assert.Equal(t, []byte("10"), val)
}

func TestNilKeyIsRejected(t *testing.T) {
	kv := MemStore()
	assert.True(t, errors.ErrDatabase.Is(kv.Set(nil, []byte("x"))))
	assert.True(t, errors.ErrDatabase.Is(kv.Delete(nil)))
}

func TestIteratorMergesLayers(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "c", "e", "g"} {
		require.NoError(t, base.Set([]byte(k), []byte("base-"+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("cache-b")))
	require.NoError(t, cache.Set([]byte("e"), []byte("cache-e")))
	require.NoError(t, cache.Delete([]byte("c")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		wantKeys   []string
		wantValues []string
	}{
		"full range": {
			wantKeys:   []string{"a", "b", "e", "g"},
			wantValues: []string{"base-a", "cache-b", "cache-e", "base-g"},
		},
		"bounded range": {
			start:      []byte("b"),
			end:        []byte("g"),
			wantKeys:   []string{"b", "e"},
			wantValues: []string{"cache-b", "cache-e"},
		},
		"reverse": {
			reverse:    true,
			wantKeys:   []string{"g", "e", "b", "a"},
			wantValues: []string{"base-g", "cache-e", "cache-b", "base-a"},
		},
		"reverse bounded": {
			start:      []byte("a"),
			end:        []byte("e"),
			reverse:    true,
			wantKeys:   []string{"b", "a"},
			wantValues: []string{"cache-b", "base-a"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)

			models, err := ReadAll(it)
			require.NoError(t, err)

			var keys, values []string
			for _, m := range models {
				keys = append(keys, string(m.Key))
				values = append(values, string(m.Value))
			}
			assert.Equal(t, tc.wantKeys, keys)
			assert.Equal(t, tc.wantValues, values)
		})
	}
}

func TestLogableStoreRecordsOps(t *testing.T) {
	kv, ops := LogableStore()
	require.NoError(t, kv.Set([]byte("foo"), []byte("bar")))
	require.NoError(t, kv.Delete([]byte("foo")))

	got := ops.ShowOps()
	require.Len(t, got, 2)
	assert.True(t, got[0].IsSetOp())
	assert.False(t, got[1].IsSetOp())
	assert.Equal(t, []byte("foo"), got[1].Key())
}

func TestSliceIterator(t *testing.T) {
	it := NewSliceIterator([]Model{{Key: []byte("k"), Value: []byte("v")}})
	key, value, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte("k"), key)
	assert.Equal(t, []byte("v"), value)

	_, _, err = it.Next()
	assert.True(t, errors.ErrIteratorDone.Is(err))
	it.Release()
}

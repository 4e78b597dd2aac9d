package orm

import (
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	Metadata escrowd.Metadata
	Count    uint64
}

var _ CloneableData = (*counter)(nil)

func (c *counter) Validate() error {
	return c.Metadata.Validate()
}

func (c *counter) Copy() CloneableData {
	cpy := *c
	return &cpy
}

func (c counter) Marshal() ([]byte, error) {
	return Encode(c)
}

func (c *counter) Unmarshal(raw []byte) error {
	return Decode(raw, c)
}

func newCounter(key string, n uint64) Object {
	return NewSimpleObj([]byte(key), &counter{Metadata: escrowd.Metadata{Schema: 1}, Count: n})
}

func TestBucketSaveGetDelete(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &counter{}))

	obj, err := b.Get(db, []byte("alice"))
	require.NoError(t, err)
	assert.Nil(t, obj)

	require.NoError(t, b.Save(db, newCounter("alice", 7)))

	obj, err = b.Get(db, []byte("alice"))
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.Equal(t, []byte("alice"), obj.Key())
	assert.Equal(t, uint64(7), obj.Value().(*counter).Count)

	has, err := b.Has(db, []byte("alice"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, b.Delete(db, []byte("alice")))
	has, err = b.Has(db, []byte("alice"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBucketRejectsInvalid(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &counter{}))

	err := b.Save(db, NewSimpleObj([]byte("bob"), &counter{Count: 1}))
	assert.True(t, errors.ErrMetadata.Is(err))

	err = b.Save(db, newCounter("", 1))
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestBucketsDoNotOverlap(t *testing.T) {
	db := store.MemStore()
	a := NewBucket("abc", NewSimpleObj(nil, &counter{}))
	l := NewBucket("led", NewSimpleObj(nil, &counter{}))

	require.NoError(t, a.Save(db, newCounter("x", 1)))
	require.NoError(t, l.Save(db, newCounter("x", 2)))

	obj, err := a.Get(db, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), obj.Value().(*counter).Count)
	obj, err = l.Get(db, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), obj.Value().(*counter).Count)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, &counter{}))
	other := NewBucket("cntt", NewSimpleObj(nil, &counter{}))

	require.NoError(t, b.Save(db, newCounter("aa", 1)))
	require.NoError(t, b.Save(db, newCounter("ab", 2)))
	require.NoError(t, b.Save(db, newCounter("b", 3)))
	require.NoError(t, other.Save(db, newCounter("aa", 4)))

	res, err := b.Query(db, escrowd.KeyQueryMod, []byte("ab"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, b.DBKey([]byte("ab")), res[0].Key)

	res, err = b.Query(db, escrowd.KeyQueryMod, []byte("zz"))
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = b.Query(db, escrowd.PrefixQueryMod, []byte("a"))
	require.NoError(t, err)
	assert.Len(t, res, 2)

	res, err = b.Query(db, escrowd.PrefixQueryMod, nil)
	require.NoError(t, err)
	assert.Len(t, res, 3)

	_, err = b.Query(db, "range", nil)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestIllegalBucketName(t *testing.T) {
	assert.Panics(t, func() { NewBucket("A", nil) })
	assert.Panics(t, func() { NewBucket("waytoolongname", nil) })
}

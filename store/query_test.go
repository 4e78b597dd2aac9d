package store

import (
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("cntt"), PrefixEnd([]byte("cnts")))
	assert.Equal(t, []byte{0x02}, PrefixEnd([]byte{0x01, 0xff}))
	assert.Nil(t, PrefixEnd([]byte{0xff, 0xff}))
}

func TestRawQuery(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("listing:a"), []byte("1")))
	require.NoError(t, db.Set([]byte("listing:b"), []byte("2")))
	require.NoError(t, db.Set([]byte("sfund:a"), []byte("3")))

	qr := escrowd.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/")
	require.NotNil(t, h)

	res, err := h.Query(db, escrowd.KeyQueryMod, []byte("sfund:a"))
	require.NoError(t, err)
	assert.Equal(t, []Model{escrowd.Pair([]byte("sfund:a"), []byte("3"))}, res)

	res, err = h.Query(db, escrowd.KeyQueryMod, []byte("sfund:b"))
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = h.Query(db, escrowd.PrefixQueryMod, []byte("listing:"))
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, []byte("listing:a"), res[0].Key)
	assert.Equal(t, []byte("listing:b"), res[1].Key)

	_, err = h.Query(db, escrowd.KeyQueryMod, nil)
	assert.True(t, errors.ErrEmpty.Is(err))
	_, err = h.Query(db, "range", nil)
	assert.True(t, errors.ErrInput.Is(err))
}

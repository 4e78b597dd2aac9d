package escrowd_test

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOptions(t *testing.T) {
	var opts escrowd.Options
	require.NoError(t, json.Unmarshal([]byte(`{"sale": {"price": 4}}`), &opts))

	var sale struct {
		Price uint64 `json:"price"`
	}
	require.NoError(t, opts.ReadOptions("sale", &sale))
	assert.EqualValues(t, 4, sale.Price)

	// missing keys are a noop
	var missing struct{ X int }
	require.NoError(t, opts.ReadOptions("nothing", &missing))
	assert.Equal(t, 0, missing.X)

	var wrong []string
	assert.Error(t, opts.ReadOptions("sale", &wrong))
}

type recordInit struct {
	calls *[]string
	name  string
	err   error
}

func (r recordInit) FromGenesis(escrowd.Options, escrowd.KVStore) error {
	*r.calls = append(*r.calls, r.name)
	return r.err
}

func TestChainInitializers(t *testing.T) {
	var calls []string
	db := store.MemStore()

	init := escrowd.ChainInitializers(
		recordInit{calls: &calls, name: "a"},
		recordInit{calls: &calls, name: "b", err: errors.ErrState},
		recordInit{calls: &calls, name: "c"},
	)
	err := init.FromGenesis(escrowd.Options{}, db)
	assert.True(t, errors.ErrState.Is(err))
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestLoadMsg(t *testing.T) {
	valid := &weavetest.Msg{RoutePath: "sale/deposit"}
	tx := &weavetest.Tx{Msg: valid}

	var ptr weavetest.Msg
	require.NoError(t, escrowd.LoadMsg(tx, &ptr))
	assert.Equal(t, "sale/deposit", ptr.RoutePath)

	var dbl *weavetest.Msg
	require.NoError(t, escrowd.LoadMsg(tx, &dbl))
	assert.Equal(t, valid, dbl)

	var other struct{}
	assert.True(t, errors.ErrType.Is(escrowd.LoadMsg(tx, &other)))
	assert.True(t, errors.ErrType.Is(escrowd.LoadMsg(tx, ptr)))
	assert.True(t, errors.ErrMsg.Is(escrowd.LoadMsg(&weavetest.Tx{}, &ptr)))

	invalid := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "sale/deposit", Err: errors.ErrInput}}
	assert.True(t, errors.ErrInput.Is(escrowd.LoadMsg(invalid, &ptr)))

	assert.Equal(t, "sale/deposit", escrowd.GetPath(tx))
	assert.Equal(t, "(missing)", escrowd.GetPath(&weavetest.Tx{}))
}

func TestMetadata(t *testing.T) {
	assert.True(t, errors.ErrMetadata.Is(escrowd.Metadata{}.Validate()))
	assert.NoError(t, escrowd.Metadata{Schema: 1}.Validate())
}

func TestVersion(t *testing.T) {
	assert.Contains(t, escrowd.Version(), "v0.1.0")
}

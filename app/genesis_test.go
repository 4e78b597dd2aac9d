package app

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/escrowd/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenesisAppState(t *testing.T) {
	dir, err := ioutil.TempDir("", "escrowd-genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "genesis.json")
	const doc = `{"genesis_time": "2019-04-01T00:00:00Z", "chain_id": "test-chain-67", "validators": []}`
	require.NoError(t, ioutil.WriteFile(path, []byte(doc), 0600))

	gen, err := LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, "test-chain-67", gen.ChainID)
	assert.Empty(t, gen.AppState)

	require.NoError(t, SetAppState(path, []byte(`{"sale": {"price": 0}}`)))

	gen, err = LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, "test-chain-67", gen.ChainID)
	assert.Contains(t, gen.AppState, "sale")

	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "genesis_time")

	err = SetAppState(path, []byte(`{}`))
	assert.True(t, errors.ErrDuplicate.Is(err))

	_, err = LoadGenesis(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.ErrInput.Is(err))
}

package server

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/escrowd/app"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/iov-one/escrowd/x/sale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

const testAsset = "0707070707070707070707070707070707070707070707070707070707070707"

func writeGenesis(t *testing.T, dir, content string) string {
	t.Helper()
	path := GenesisPath(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
	return path
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBind, opts.Bind)
	assert.False(t, opts.Debug)
	assert.Equal(t, "", opts.Metrics)

	opts, err = parseFlags([]string{"-bind", "tcp://0.0.0.0:1234", "-debug", "-metrics", "localhost:9102"})
	require.NoError(t, err)
	assert.Equal(t, "tcp://0.0.0.0:1234", opts.Bind)
	assert.True(t, opts.Debug)
	assert.Equal(t, "localhost:9102", opts.Metrics)

	_, err = parseFlags([]string{"extra"})
	assert.True(t, errors.ErrInput.Is(err))

	_, err = parseFlags([]string{"-unknown"})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestInitCmd(t *testing.T) {
	home, err := ioutil.TempDir("", "escrowd-init")
	require.NoError(t, err)
	defer os.RemoveAll(home)

	logger := log.NewNopLogger()
	seller := weavetest.NewCondition().Address()
	gen := func(args []string) (json.RawMessage, error) {
		assert.Equal(t, []string{"x"}, args)
		return json.RawMessage(`{"sale": {"seller": "` + seller.String() + `", "asset": "` + testAsset + `", "price": 9}}`), nil
	}

	err = InitCmd(gen, logger, home, []string{"x"})
	require.Error(t, err)
	assert.True(t, errors.ErrNotFound.Is(err))

	path := writeGenesis(t, home, `{"chain_id": "test-chain", "validators": []}`)
	require.NoError(t, InitCmd(gen, logger, home, []string{"x"}))

	loaded, err := app.LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, "test-chain", loaded.ChainID)
	var state sale.Genesis
	require.NoError(t, loaded.AppState.ReadOptions("sale", &state))
	assert.Equal(t, seller, state.Seller)
	assert.EqualValues(t, 9, state.Price)

	// The state is written only once.
	err = InitCmd(gen, logger, home, []string{"x"})
	assert.True(t, errors.ErrDuplicate.Is(err))

	// And the generated state passes validation.
	require.NoError(t, ValidateGenesis(&sale.Initializer{}, []string{path}))
}

func TestValidateGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "escrowd-validate")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	seller := weavetest.NewCondition().Address()
	cases := map[string]struct {
		content string
		wantErr *errors.Error
	}{
		"no sale section": {
			content: `{"chain_id": "c", "app_state": {}}`,
		},
		"empty contract": {
			content: `{"chain_id": "c", "app_state": {"sale": {}}}`,
		},
		"full listing": {
			content: `{"chain_id": "c", "app_state": {"sale": {"seller": "` + seller.String() + `", "asset": "` + testAsset + `", "price": 1}}}`,
		},
		"asset without seller": {
			content: `{"chain_id": "c", "app_state": {"sale": {"asset": "` + testAsset + `"}}}`,
			wantErr: errors.ErrInput,
		},
		"short asset": {
			content: `{"chain_id": "c", "app_state": {"sale": {"seller": "` + seller.String() + `", "asset": "0707"}}}`,
			wantErr: errors.ErrInput,
		},
		"broken json": {
			content: `{"chain_id": `,
			wantErr: errors.ErrInput,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			require.NoError(t, ioutil.WriteFile(path, []byte(tc.content), 0600))

			err := ValidateGenesis(&sale.Initializer{}, []string{path})
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, tc.wantErr.Is(err), "got %+v", err)
		})
	}

	err = ValidateGenesis(&sale.Initializer{}, nil)
	assert.True(t, errors.ErrInput.Is(err))
}

package app

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/app"
	"github.com/iov-one/escrowd/crypto"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/iov-one/escrowd/x/sale"
	"github.com/iov-one/escrowd/x/sigs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const chainID = "escrow-test-chain"

func signedTx(t *testing.T, msg escrowd.Msg, signer crypto.Signer, seq int64) []byte {
	t.Helper()
	tx := &Tx{Msg: msg}
	require.NoError(t, tx.Sign(signer, chainID, seq))
	raw, err := tx.Marshal()
	require.NoError(t, err)
	return raw
}

func query(t *testing.T, a abci.Application, path string, data []byte) [][]byte {
	t.Helper()
	res := a.Query(abci.RequestQuery{Path: path, Data: data})
	require.Equal(t, errors.SuccessABCICode, res.Code, res.Log)
	var set app.ResultSet
	require.NoError(t, set.Unmarshal(res.Value))
	return set.Results
}

func TestSaleLifecycle(t *testing.T) {
	sellerKey := weavetest.NewKey()
	buyerKey := weavetest.NewKey()
	seller := sellerKey.PublicKey().Address()
	buyer := buyerKey.PublicKey().Address()
	asset := bytes.Repeat([]byte{0xab}, sale.AssetIDLength)

	appState, err := GenInitOptions([]string{
		"-seller", seller.String(),
		"-asset", hex.EncodeToString(asset),
		"-price", "10",
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	myApp, err := Application("escrow-test", sale.NewLedger(), "", reg, false)
	require.NoError(t, err)
	myApp.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: appState})

	// The check state only sees genesis after the first commit.
	myApp.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: time.Now()}})
	myApp.EndBlock(abci.RequestEndBlock{})
	myApp.Commit()

	myApp.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2, Time: time.Now()}})

	deposit := signedTx(t, &sale.DepositMsg{
		Metadata: escrowd.Metadata{Schema: 1},
		Target:   seller,
		Amount:   15,
	}, buyerKey, 0)
	cres := myApp.CheckTx(deposit)
	require.Equal(t, errors.SuccessABCICode, cres.Code, cres.Log)
	dres := myApp.DeliverTx(deposit)
	require.Equal(t, errors.SuccessABCICode, dres.Code, dres.Log)

	// The seller cannot buy its own asset.
	dres = myApp.DeliverTx(signedTx(t, &sale.DepositMsg{
		Metadata: escrowd.Metadata{Schema: 1},
		Target:   seller,
		Amount:   1,
	}, sellerKey, 0))
	assert.Equal(t, sale.ErrSelfTrade.ABCICode(), dres.Code)

	settle := signedTx(t, &sale.SettleMsg{
		Metadata: escrowd.Metadata{Schema: 1},
		Target:   buyer,
	}, sellerKey, 1)
	dres = myApp.DeliverTx(settle)
	require.Equal(t, errors.SuccessABCICode, dres.Code, dres.Log)
	var got sale.Holding
	require.NoError(t, got.Unmarshal(dres.Data))
	assert.Equal(t, asset, got.Asset)
	assert.EqualValues(t, 10, got.Price)

	myApp.EndBlock(abci.RequestEndBlock{})
	myApp.Commit()

	status := query(t, myApp, "/sale/status", buyer)
	require.Len(t, status, 1)
	assert.Equal(t, "Current item: "+hex32Upper(asset)+". Current price: 10. Fund: 5", string(status[0]))

	status = query(t, myApp, "/sale/status", seller)
	require.Len(t, status, 1)
	assert.Equal(t, "No item data. Fund: 10", string(status[0]))

	holdings := query(t, myApp, "/sale/holding", buyer)
	require.Len(t, holdings, 1)

	// Once settled, every transaction is rejected.
	myApp.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 3, Time: time.Now()}})
	dres = myApp.DeliverTx(signedTx(t, &sale.DepositMsg{
		Metadata: escrowd.Metadata{Schema: 1},
		Target:   seller,
		Amount:   1,
	}, buyerKey, 1))
	assert.Equal(t, sale.ErrTerminated.ABCICode(), dres.Code)
	myApp.EndBlock(abci.RequestEndBlock{})
	myApp.Commit()

	balance := query(t, myApp, "/sale/balance", buyer)
	require.Len(t, balance, 1)
	var fund sale.Balance
	require.NoError(t, fund.Unmarshal(balance[0]))
	assert.EqualValues(t, 5, fund.Amount)

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "escrowd_transactions_total")
}

func TestRejectedTransactions(t *testing.T) {
	myApp, err := Application("escrow-test", sale.NewLedger(), "", nil, false)
	require.NoError(t, err)
	myApp.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: []byte(`{"sale": {}}`)})
	myApp.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: time.Now()}})

	key := weavetest.NewKey()
	insert := &sale.InsertAssetMsg{
		Metadata: escrowd.Metadata{Schema: 1},
		Asset:    weavetest.SequenceAsset(1),
		Price:    3,
	}

	cases := map[string]struct {
		tx   []byte
		want *errors.Error
	}{
		"garbage": {
			tx:   []byte{0x01, 0x02, 0x03},
			want: errors.ErrInput,
		},
		"unsigned": {
			tx: func() []byte {
				raw, err := (&Tx{Msg: insert}).Marshal()
				require.NoError(t, err)
				return raw
			}(),
			want: errors.ErrUnauthorized,
		},
		"wrong sequence": {
			tx:   signedTx(t, insert, key, 7),
			want: sigs.ErrInvalidSequence,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			res := myApp.DeliverTx(tc.tx)
			assert.Equal(t, tc.want.ABCICode(), res.Code, res.Log)
		})
	}

	// The first insert on an empty contract makes the signer the seller.
	res := myApp.DeliverTx(signedTx(t, insert, key, 0))
	require.Equal(t, errors.SuccessABCICode, res.Code, res.Log)
	myApp.Commit()

	listing := query(t, myApp, "/sale/listing", key.PublicKey().Address())
	require.Len(t, listing, 1)
	var l sale.Listing
	require.NoError(t, l.Unmarshal(listing[0]))
	assert.EqualValues(t, 3, l.Price)
}

func TestGenInitOptions(t *testing.T) {
	seller := weavetest.NewCondition().Address()
	asset := hex.EncodeToString(weavetest.SequenceAsset(4))

	cases := map[string]struct {
		args    []string
		wantErr bool
		want    sale.Genesis
	}{
		"empty contract": {},
		"listing": {
			args: []string{"-seller", seller.String(), "-asset", asset, "-price", "3"},
			want: sale.Genesis{Seller: seller, Asset: asset, Price: 3},
		},
		"asset without seller": {
			args:    []string{"-asset", asset},
			wantErr: true,
		},
		"seller without asset": {
			args:    []string{"-seller", seller.String()},
			wantErr: true,
		},
		"short asset": {
			args:    []string{"-seller", seller.String(), "-asset", "abcd"},
			wantErr: true,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			raw, err := GenInitOptions(tc.args)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.ErrInput.Is(err))
				return
			}
			require.NoError(t, err)
			var opts escrowd.Options
			require.NoError(t, json.Unmarshal(raw, &opts))
			var got sale.Genesis
			require.NoError(t, opts.ReadOptions("sale", &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTxEncoding(t *testing.T) {
	key := weavetest.NewKey()
	msg := &sale.SettleMsg{
		Metadata: escrowd.Metadata{Schema: 1},
		Target:   weavetest.NewCondition().Address(),
	}
	raw := signedTx(t, msg, key, 2)

	tx, err := TxDecoder(raw)
	require.NoError(t, err)
	got, err := tx.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, msg, got)
	require.Len(t, tx.(*Tx).GetSignatures(), 1)
	assert.EqualValues(t, 2, tx.(*Tx).GetSignatures()[0].Sequence)

	// Signing does not change the signed bytes.
	before, err := (&Tx{Msg: msg}).GetSignBytes()
	require.NoError(t, err)
	after, err := tx.(*Tx).GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	_, err = (&Tx{}).GetMsg()
	assert.True(t, errors.ErrMsg.Is(err))
}

func hex32Upper(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

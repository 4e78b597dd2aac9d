package utils

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func pathTx(path string) escrowd.Tx {
	return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: path}}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	h := weavetest.Decorate(weavetest.PanicHandler{Msg: "boom"}, NewRecovery())
	ctx := escrowd.WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
	db := store.MemStore()

	_, err := h.Check(ctx, db, pathTx("sale/settle"))
	require.Error(t, err)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, buf.String(), "recovered from panic")
	assert.Contains(t, buf.String(), "boom")

	_, err = h.Deliver(ctx, db, pathTx("sale/settle"))
	require.Error(t, err)
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestActionTagger(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()

	h := weavetest.Decorate(&weavetest.Handler{}, NewActionTagger())
	res, err := h.Deliver(ctx, db, pathTx("sale/deposit"))
	require.NoError(t, err)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, ActionKey, string(res.Tags[0].Key))
	assert.Equal(t, "sale/deposit", string(res.Tags[0].Value))

	// failures are not tagged
	failing := weavetest.Decorate(&weavetest.Handler{DeliverErr: errors.ErrState}, NewActionTagger())
	_, err = failing.Deliver(ctx, db, pathTx("sale/deposit"))
	assert.True(t, errors.ErrState.Is(err))

	// check results are never tagged
	cres, err := h.Check(ctx, db, pathTx("sale/deposit"))
	require.NoError(t, err)
	assert.NotNil(t, cres)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	ctx := escrowd.WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
	db := store.MemStore()

	ok := weavetest.Decorate(&weavetest.Handler{DeliverResult: escrowd.DeliverResult{Log: "settled"}}, NewLogging())
	_, err := ok.Deliver(ctx, db, pathTx("sale/settle"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "settled")
	assert.Contains(t, buf.String(), "path=sale/settle")

	buf.Reset()
	failing := weavetest.Decorate(&weavetest.Handler{CheckErr: errors.ErrInput}, NewLogging())
	_, err = failing.Check(ctx, db, pathTx("sale/insert_asset"))
	assert.True(t, errors.ErrInput.Is(err))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "E["), out)
	assert.Contains(t, out, "path=sale/insert_asset")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	db := store.MemStore()

	ok := weavetest.Decorate(&weavetest.Handler{}, m)
	failing := weavetest.Decorate(&weavetest.Handler{DeliverErr: errors.ErrInput}, m)

	_, err = ok.Deliver(ctx, db, pathTx("sale/deposit"))
	require.NoError(t, err)
	_, err = ok.Deliver(ctx, db, pathTx("sale/deposit"))
	require.NoError(t, err)
	_, err = ok.Check(ctx, db, pathTx("sale/deposit"))
	require.NoError(t, err)
	_, err = failing.Deliver(ctx, db, pathTx("sale/deposit"))
	require.Error(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.txs.WithLabelValues("deliver", "sale/deposit", "0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.txs.WithLabelValues("check", "sale/deposit", "0")))
	code := errors.ErrInput.ABCICode()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.txs.WithLabelValues("deliver", "sale/deposit", strconv.FormatUint(uint64(code), 10))))

	// the same collectors cannot be registered twice
	_, err = NewMetrics(reg)
	assert.True(t, errors.ErrState.Is(err))

	// nothing is registered without a registerer
	_, err = NewMetrics(nil)
	assert.NoError(t, err)
}

package app

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is the full ABCI application. It runs transactions through a
// single handler, the StoreApp below it serves queries and commits.
type BaseApp struct {
	*StoreApp
	decoder escrowd.TxDecoder
	handler escrowd.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

func NewBaseApp(
	store *StoreApp,
	decoder escrowd.TxDecoder,
	handler escrowd.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx decodes the transaction and runs the handler against the
// deliver store.
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return escrowd.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext("deliver_tx", tx), b.DeliverStore(), tx)
	return escrowd.DeliverOrError(res, err, b.debug)
}

// CheckTx decodes the transaction and runs the handler against the check
// store. Check writes are dropped at the next commit.
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return escrowd.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(b.txContext("check_tx", tx), b.CheckStore(), tx)
	return escrowd.CheckOrError(res, err, b.debug)
}

// txContext tags the block logger with the ABCI call and the message path.
func (b BaseApp) txContext(call string, tx escrowd.Tx) escrowd.Context {
	return escrowd.WithLogInfo(b.BlockContext(), "call", call, "path", escrowd.GetPath(tx))
}

// loadTx turns a decoder panic into an error, the input is untrusted.
func (b BaseApp) loadTx(txBytes []byte) (tx escrowd.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}

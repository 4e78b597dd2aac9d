/*
Package app wires the sale extension into a runnable ABCI application:
the transaction format, the decorator chain, the routers and the genesis
options.
*/
package app

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/app"
	"github.com/iov-one/escrowd/commands/server"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/store"
	"github.com/iov-one/escrowd/store/iavl"
	"github.com/iov-one/escrowd/x"
	"github.com/iov-one/escrowd/x/sale"
	"github.com/iov-one/escrowd/x/sigs"
	"github.com/iov-one/escrowd/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is reported by the Info call.
const Name = "escrowd"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// Chain returns a chain of decorators, to handle authentication,
// termination, logging, and recovery
func Chain(ledger *sale.Ledger, metrics utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		metrics,
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		sale.NewTerminationDecorator(ledger),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching the sale messages.
func Router(authFn x.Authenticator, ledger *sale.Ledger) *app.Router {
	r := app.NewRouter()
	sale.RegisterRoutes(r, authFn, ledger)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/sale/...", "/auth", and "/"
func QueryRouter(ledger *sale.Ledger) escrowd.QueryRouter {
	r := escrowd.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		store.RegisterQuery,
	)
	sale.RegisterQuery(r, ledger)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(ledger *sale.Ledger, metrics utils.Metrics) escrowd.Handler {
	return Chain(ledger, metrics).WithHandler(Router(Authenticator(), ledger))
}

// Application constructs a basic ABCI application with
// the given arguments. An empty dbPath keeps the state in memory. The
// transaction metrics are registered with reg, if given.
func Application(name string, ledger *sale.Ledger, dbPath string, reg prometheus.Registerer, debug bool) (app.BaseApp, error) {
	metrics, err := utils.NewMetrics(reg)
	if err != nil {
		return app.BaseApp{}, err
	}
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	s := app.NewStoreApp(name, kv, QueryRouter(ledger), context.Background()).
		WithInit(escrowd.ChainInitializers(&sale.Initializer{Ledger: ledger}))
	return app.NewBaseApp(s, TxDecoder, Stack(ledger, metrics), debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (escrowd.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	reg := prometheus.NewRegistry()
	dbPath := filepath.Join(options.Home, "escrow.db")
	application, err := Application(Name, sale.NewLedger(), dbPath, reg, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithLogger(options.Logger)

	if options.Metrics != "" {
		go serveMetrics(options.Metrics, reg, options.Logger)
	}
	return application, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics endpoint stopped", "err", err)
	}
}

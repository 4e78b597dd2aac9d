package server

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/escrowd/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"

	// DefaultBind is the address the ABCI socket listens on when no
	// bind flag is given.
	DefaultBind = "tcp://localhost:46658"
)

// Options carries everything an AppGenerator needs to build the
// application.
type Options struct {
	Home   string
	Logger log.Logger
	Debug  bool
	Bind   string
	// Metrics is the address of the prometheus endpoint. Empty disables
	// it.
	Metrics string
}

func parseFlags(args []string) (*Options, error) {
	var opts Options
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&opts.Bind, flagBind, DefaultBind, "address server listens on")
	startFlags.BoolVar(&opts.Debug, flagDebug, false, "call stack returned on error")
	startFlags.StringVar(&opts.Metrics, flagMetrics, "", "address of the prometheus metrics endpoint, eg. localhost:9102")
	if err := startFlags.Parse(args); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if startFlags.NArg() > 0 {
		return nil, errors.Wrapf(errors.ErrInput, "unexpected arguments: %v", startFlags.Args())
	}
	return &opts, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// StartCmd builds the application and serves it over an ABCI socket
// until the process receives an interrupt.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	opts.Home = home
	opts.Logger = logger

	app, err := gen(opts)
	if err != nil {
		return errors.Wrap(err, "cannot create application")
	}

	logger.Info("Starting ABCI app", "bind", opts.Bind)

	svr, err := server.NewServer(opts.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(errors.ErrState, err.Error())
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("Stopping ABCI app", "signal", s.String())
	return svr.Stop()
}

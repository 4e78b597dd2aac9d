package server

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"github.com/iov-one/escrowd/app"
	"github.com/iov-one/escrowd/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const flagGenesis = "genesis"

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisPath is where tendermint keeps the genesis file below home.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd writes the application state generated by gen into an existing
// tendermint genesis file. The file must have been created by
// `tendermint init` beforehand. Arguments that are not consumed by the
// init flags are passed to gen.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	var genFile string
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.StringVar(&genFile, flagGenesis, GenesisPath(home), "genesis file to update")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if _, err := os.Stat(genFile); err != nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis file %q, run tendermint init first", genFile)
	}

	appState, err := gen(initFlags.Args())
	if err != nil {
		return errors.Wrap(err, "cannot generate app state")
	}
	if err := app.SetAppState(genFile, appState); err != nil {
		return errors.Wrap(err, genFile)
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/cmd/escrowd/app"
	"github.com/iov-one/escrowd/commands/server"
	"github.com/iov-one/escrowd/x/sale"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("escrowd")
	fmt.Println("         Single item escrow ABCI Application")
	fmt.Println("")
	fmt.Println("help     Print this message")
	fmt.Println("init     Initialize app options in genesis file")
	fmt.Println("start    Run the abci server")
	fmt.Println("validate Check the app state of the given genesis files")
	fmt.Println("version  Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.escrowd")`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "escrowd")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(app.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(app.GenerateApp, logger, *varHome, rest)
	case "validate":
		paths := rest
		if len(paths) == 0 {
			paths = []string{server.GenesisPath(*varHome)}
		}
		err = server.ValidateGenesis(&sale.Initializer{}, paths)
		if err == nil {
			fmt.Println("genesis valid")
		}
	case "version":
		fmt.Println(escrowd.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

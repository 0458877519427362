// Package main is the CLI command itself.
package main

import (
	"os"

	segcli "github.com/markerseg/markerseg/cli"
)

func main() {
	app := segcli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		// the error has already been reported on stdout
		os.Exit(1)
	}
}

// Package main is the entry point for the sitesplice CLI.
package main

import (
	"os"

	"github.com/jmylchreest/sitesplice/cmd/sitesplice/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

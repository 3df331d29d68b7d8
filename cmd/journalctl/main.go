// Package main provides journalctl, the journal server's admin CLI.
package main

import (
	"os"

	"github.com/journalapp/journal-server/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

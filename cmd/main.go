// Package main runs the petledger command line interface.
package main

import (
	"os"

	"github.com/go-petr/pet-ledger/internal/commands"

	_ "github.com/lib/pq"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/bnema/practice-ledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

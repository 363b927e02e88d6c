// Package main is the entry point for the cashflow CLI.
package main

import (
	"os"

	"cashflow/cmd/cashflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

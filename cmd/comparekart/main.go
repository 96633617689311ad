// Package main is the entry point for comparekart.
package main

import (
	"os"

	"github.com/nkhattar/comparekart/cmd/comparekart/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

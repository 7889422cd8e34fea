// Package main is the entry point for the rpick CLI.
package main

import (
	"os"

	"github.com/runger/rpick/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

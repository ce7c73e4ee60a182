// Package main provides the shellvet shell script linter CLI.
package main

import (
	"os"

	"github.com/shellvet/shellvet/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main provides the leapfix command.
package main

import (
	"os"

	"github.com/leapstack-labs/leapfix/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main provides the sfcatalog CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/sfcatalog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package main provides the entry point for the dynakit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/rongjin-uky/dynakit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}

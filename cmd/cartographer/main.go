// Package main runs the cartographer command line.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/cartographer/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cartographer:", err)
		os.Exit(cli.GetExitCode(err))
	}
}

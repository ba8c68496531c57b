package main

import (
	"fmt"
	"os"

	"github.com/rocketscienceinc/tictactoe-history/internal/cli"
)

// main - is the entry point of the application. Subcommands load config and build the logger themselves.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	root := cli.Root()
	root.SetArgs(os.Args[1:])

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package main provides the entry point for the ghpulse CLI.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/ghpulse/cmd/ghpulse/commands"
)

func main() {
	err := commands.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(commands.ExitCode(err))
	}
}

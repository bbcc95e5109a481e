// Package main is the entry point for the restic-runner CLI.
package main

import (
	"errors"
	"os"

	"restic-runner/cmd/restic-runner/commands"
	runerrors "restic-runner/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		var exitErr *runerrors.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

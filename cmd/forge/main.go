// Package main is the entry point for the forge CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/forge-cli/forge/cmd/forge/commands"
	forgeerrors "github.com/forge-cli/forge/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	code := forgeerrors.ExitUser
	var exitErr *forgeerrors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "Error: %v\n%s\n", err, exitErr.Suggestion)
			os.Exit(code)
		}
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(code)
}

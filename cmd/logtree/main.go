// Package main is the entry point for the logtree CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/philipp01105/logtree/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exitErr *cmd.ExitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

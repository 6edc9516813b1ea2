package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"texkit/internal/maintenance"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, maintenance.ErrSetupRequired) {
			fmt.Fprintln(os.Stderr, maintenance.SetupMessage)
			os.Exit(2)
		}
		var exitErr *scriptExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

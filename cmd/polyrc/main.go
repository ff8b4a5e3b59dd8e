// Package main is the entry point for the polyrc CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/thoreinstein/polyrc/cmd/polyrc/commands"
	polyerrors "github.com/thoreinstein/polyrc/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)

	var exitErr *polyerrors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("hint:"), exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}
	os.Exit(polyerrors.ExitUser)
}

// Package main provides the entry point for the ruoyi CLI tool.
package main

import (
	"context"
	"os"

	"github.com/ruoyi-fastapi/ruoyi-go/cmd/ruoyi/app"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/constants"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	err = application.Execute(ctx, os.Args[1:])

	// Fresh context: the signal context may already be cancelled
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()
	if shutdownErr := application.Shutdown(shutdownCtx); shutdownErr != nil {
		application.Logger().Error().Err(shutdownErr).Msg("shutdown failed")
	}

	if err != nil {
		// Deferred cancels do not run after os.Exit
		shutdownCancel()
		cancel()
		app.ExitOnError(err)
	}
}

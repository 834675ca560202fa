// Package application provides the application interface for ruoyi commands.
//
// Commands accept Application rather than the concrete App so they can be
// tested against a Mock:
//
//	mock := &application.Mock{
//	    ClientFunc: func() (*ruoyi.Client, error) {
//	        return ruoyi.New(ruoyi.WithDispatcher(fake))
//	    },
//	}
//	cmd := channels.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/ruoyi-fastapi/ruoyi-go"
)

// Application provides what commands need from the running CLI.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Client returns the API client, creating it lazily from the resolved
	// configuration on first use.
	Client() (*ruoyi.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

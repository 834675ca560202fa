package application

import (
	"github.com/rs/zerolog"

	"github.com/ruoyi-fastapi/ruoyi-go"
)

// Mock provides a mock implementation of Application for testing.
// If a function field is nil, the method returns a default value.
type Mock struct {
	ClientFunc       func() (*ruoyi.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

// Client returns the client from ClientFunc, or a client for the default base URL.
func (m *Mock) Client() (*ruoyi.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return ruoyi.New()
}

// Logger returns a no-op logger unless LoggerFunc is set.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat defaults to json so test output is machine-readable.
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Version returns "test" unless VersionFunc is set.
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "test"
}

// Commit returns a fixed value.
func (m *Mock) Commit() string { return "none" }

// Date returns a fixed value.
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns a fixed value.
func (m *Mock) BuiltBy() string { return "test" }

var _ Application = (*Mock)(nil)

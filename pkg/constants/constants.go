// Package constants provides shared constants used throughout the ruoyi client.
// This includes timeouts, default endpoints, headers, and file permissions
// that should be consistent across the library and the CLI.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for a single dispatch to the RuoYi API
	DefaultHTTPTimeout = 30 * time.Second

	// DownloadTimeout is the timeout the CLI uses for binary downloads and exports.
	// It outlasts DefaultHTTPTimeout because binary dispatches honour a later caller deadline
	DownloadTimeout = 5 * time.Minute

	// ShutdownTimeout bounds graceful shutdown after a failed command
	ShutdownTimeout = 5 * time.Second
)

// Endpoint defaults
const (
	// DefaultBaseURL is the RuoYi-FastAPI development server address
	DefaultBaseURL = "http://localhost:9099"

	// DefaultUserAgent is sent with every request unless overridden
	DefaultUserAgent = "ruoyi-go"

	// EnvPrefix is the prefix for environment variables read by the CLI
	EnvPrefix = "RUOYI"
)

// Header names
const (
	HeaderRequestID   = "X-Request-Id"
	HeaderContentType = "Content-Type"
	HeaderAccept      = "Accept"
	HeaderUserAgent   = "User-Agent"

	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Envelope codes returned by the RuoYi response utility
const (
	// CodeSuccess is the envelope code for a successful call
	CodeSuccess = 200

	// CodeUnauthorized is returned when the login session has expired
	CodeUnauthorized = 401

	// CodeServerError is the generic envelope failure code
	CodeServerError = 500

	// CodeWarning is used by RuoYi for business-rule warnings
	CodeWarning = 601
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Pagination defaults mirror the backend's page query models
const (
	DefaultPageNum  = 1
	DefaultPageSize = 10
)

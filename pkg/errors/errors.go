// Package errors provides the error taxonomy for the ruoyi client.
// Every dispatch failure is one of three kinds: a TransportError (the request
// never produced an HTTP response), an APIError (the server answered with a
// non-2xx status or a RuoYi envelope whose code is not 200), or a DecodeError
// (the response body could not be decoded into the expected shape).
// Sentinel errors allow errors.Is checks without type assertions.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is, As and Join are re-exported so callers only import one errors package.
var (
	Is   = errors.Is
	As   = errors.As
	Join = errors.Join
)

// Common sentinel errors
var (
	// ErrTransport indicates the request did not complete at the network level
	ErrTransport = errors.New("transport error")

	// ErrApplication indicates the server reported a failure
	ErrApplication = errors.New("application error")

	// ErrDecode indicates a response body could not be decoded
	ErrDecode = errors.New("decode error")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates a missing or expired token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the token lacks the permission for the endpoint
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrServerUnavailable indicates a 5xx response
	ErrServerUnavailable = errors.New("server unavailable")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// TransportError represents a failure to obtain an HTTP response:
// connection refused, DNS failure, TLS failure, timeout or cancellation.
type TransportError struct {
	Method   string
	Endpoint string
	Timeout  bool
	Canceled bool
	Err      error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error on %s %s: %v", e.Method, e.Endpoint, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return true
	case ErrTimeout:
		return e.Timeout
	case ErrCanceled:
		return e.Canceled
	}
	return false
}

// NewTransportError creates a new TransportError
func NewTransportError(method, endpoint string, err error) *TransportError {
	return &TransportError{Method: method, Endpoint: endpoint, Err: err}
}

// APIError represents an application-level failure reported by the server.
// StatusCode is the HTTP status; Code is the RuoYi envelope code when one was
// present (zero otherwise). Data keeps the envelope payload of a failing
// call; some endpoints still report details there.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Code       int
	Message    string
	Data       json.RawMessage
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	switch {
	case e.Code != 0 && e.Code != e.StatusCode:
		return fmt.Sprintf("API error on %s %s (status %d, code %d): %s", e.Method, e.Endpoint, e.StatusCode, e.Code, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("API error on %s %s (status %d): %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("API error on %s %s: %s", e.Method, e.Endpoint, e.Message)
	}
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
// The envelope code wins over the HTTP status because RuoYi answers most
// failures with 200 OK and a failing code.
func (e *APIError) Is(target error) bool {
	if target == ErrApplication {
		return true
	}
	status := e.StatusCode
	if e.Code != 0 {
		status = e.Code
	}
	switch {
	case status == http.StatusUnauthorized:
		return target == ErrUnauthorized
	case status == http.StatusForbidden:
		return target == ErrForbidden
	case status == http.StatusNotFound:
		return target == ErrNotFound
	case status == http.StatusTooManyRequests:
		return target == ErrRateLimited
	case status >= 500 && status < 600:
		return target == ErrServerUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(method, endpoint string, statusCode, code int, message string) *APIError {
	return &APIError{
		Method:     method,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// DecodeError represents a response body that could not be decoded.
type DecodeError struct {
	Format   string // "json", "yaml"
	Endpoint string
	Target   string
	Body     []byte
	Err      error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("%s decode error from %s into %s: %v", e.Format, e.Endpoint, e.Target, e.Err)
	}
	return fmt.Sprintf("%s decode error from %s: %v", e.Format, e.Endpoint, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(format, endpoint, target string, body []byte, err error) *DecodeError {
	return &DecodeError{
		Format:   format,
		Endpoint: endpoint,
		Target:   target,
		Body:     body,
		Err:      err,
	}
}

// ValidationError represents a rejected request descriptor or CLI input
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// IOError represents an error during local I/O, such as writing a download
type IOError struct {
	Operation string // "read", "write", "create", "open", "close"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsTransport checks if an error is a transport error
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsApplication checks if an error is an application error
func IsApplication(err error) bool {
	return errors.Is(err, ErrApplication)
}

// IsDecode checks if an error is a decode error
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized checks if the server rejected the token
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapConfig wraps an error as a ConfigError
func WrapConfig(component string, err error) error {
	if err == nil {
		return nil
	}
	return NewConfigError(component, err.Error(), err)
}

package errors

import (
	"errors"
	"fmt"
)

// Domain error types for business logic

var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input parameters
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates an operation timeout
	ErrTimeout = errors.New("operation timeout")

	// ErrUnavailable indicates a service is unavailable
	ErrUnavailable = errors.New("service unavailable")

	// ErrNotImplemented indicates a capability that is not implemented
	ErrNotImplemented = errors.New("not implemented")
)

// Analysis pipeline errors

var (
	// ErrUnknownProvider indicates a provider id outside the supported set
	ErrUnknownProvider = errors.New("unknown ai provider")

	// ErrCredentialMissing indicates no API key is stored for the provider
	ErrCredentialMissing = errors.New("api key missing")

	// ErrUnauthorized indicates the backend rejected the API key
	ErrUnauthorized = errors.New("invalid api key")

	// ErrTransport indicates no response was received from the network layer
	ErrTransport = errors.New("transport failure")

	// ErrUpstream indicates a non-2xx response from the AI backend
	ErrUpstream = errors.New("upstream provider error")

	// ErrRetriesExhausted indicates the attempt budget was spent without success
	ErrRetriesExhausted = errors.New("maximum retries exceeded")
)

// Credential storage errors

var (
	// ErrSecretStoreUnavailable indicates the secret backend cannot be reached
	ErrSecretStoreUnavailable = errors.New("secret store unavailable")

	// ErrCiphertextCorrupt indicates a stored secret failed to decrypt
	ErrCiphertextCorrupt = errors.New("stored secret corrupt")
)

// DomainError wraps an error with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

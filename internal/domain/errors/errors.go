package errors

import (
	"errors"
	"fmt"
)

var (
	// Adapter errors
	ErrAdapterNotInitialized = errors.New("adapter not initialized")
	ErrAdapterUnavailable    = errors.New("no adapter available")
	ErrPayoutNotSupported    = errors.New("payout not supported by gateway")

	// Routing errors
	ErrGatewayNotSupported = errors.New("gateway not supported in region")
	ErrUnsupportedRegion   = errors.New("unsupported region")

	// Callback errors
	ErrInvalidSignature = errors.New("invalid callback signature")
	ErrMissingSignature = errors.New("missing callback signature")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidAmount    = errors.New("invalid amount")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

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

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

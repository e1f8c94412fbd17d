package errors

import (
	"errors"
	"fmt"
)

// Error types for different failure classes
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeInvariant   ErrorType = "invariant"
	ErrorTypeConcurrency ErrorType = "concurrency"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeDuplicate   ErrorType = "duplicate"
	ErrorTypeInternal    ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"status_code"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewValidationError reports a malformed or out-of-range field. Never retryable.
func NewValidationError(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		Retryable:  false,
		StatusCode: 400,
	}
}

// NewInvariantViolation reports a broken business rule: wrong source state,
// unbalanced journal, missing required lines. Never retryable.
func NewInvariantViolation(code, message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvariant,
		Code:       code,
		Message:    message,
		Retryable:  false,
		StatusCode: 422,
	}
}

// NewConcurrencyConflict reports a stream revision mismatch at save time.
// This is the only retryable condition in the taxonomy.
func NewConcurrencyConflict(streamID string) *AppError {
	return &AppError{
		Type:       ErrorTypeConcurrency,
		Code:       "CONCURRENCY_CONFLICT",
		Message:    fmt.Sprintf("stream %s was modified concurrently", streamID),
		Retryable:  true,
		StatusCode: 409,
		Details:    map[string]interface{}{"stream_id": streamID},
	}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       "RESOURCE_NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		Retryable:  false,
		StatusCode: 404,
	}
}

// NewDuplicateError reports a unique business-number collision.
func NewDuplicateError(resource, number string) *AppError {
	return &AppError{
		Type:       ErrorTypeDuplicate,
		Code:       "DUPLICATE_NUMBER",
		Message:    fmt.Sprintf("%s with number %s already exists", resource, number),
		Retryable:  false,
		StatusCode: 409,
		Details:    map[string]interface{}{"number": number},
	}
}

func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		Retryable:  true,
		StatusCode: 500,
	}
}

// Wrap wraps an error with a message using fmt.Errorf with %w
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsType checks if an error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsInvariantViolation checks if an error is a broken business rule
func IsInvariantViolation(err error) bool {
	return IsType(err, ErrorTypeInvariant)
}

// IsConcurrencyConflict checks if an error is a revision mismatch
func IsConcurrencyConflict(err error) bool {
	return IsType(err, ErrorTypeConcurrency)
}

// IsNotFound checks if an error is a missing-resource error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsDuplicate checks if an error is a business-number collision
func IsDuplicate(err error) bool {
	return IsType(err, ErrorTypeDuplicate)
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Retryable
	}
	return false
}

// GetStatusCode extracts HTTP status code from error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 500
}

package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for Parley errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
	CONFIG_NOT_FOUND         ErrorCode = "CONFIG_NOT_FOUND"
)

// Session error codes
const (
	SESSION_NOT_FOUND      ErrorCode = "SESSION_NOT_FOUND"
	SESSION_ALREADY_EXISTS ErrorCode = "SESSION_ALREADY_EXISTS"
	SESSION_INVALID        ErrorCode = "SESSION_INVALID"
)

// Profile seed error codes
const (
	PROFILE_LOAD_FAILED  ErrorCode = "PROFILE_LOAD_FAILED"
	PROFILE_PARSE_FAILED ErrorCode = "PROFILE_PARSE_FAILED"
	PROFILE_INVALID      ErrorCode = "PROFILE_INVALID"
)

// History import error codes
const (
	HISTORY_IMPORT_FAILED ErrorCode = "HISTORY_IMPORT_FAILED"
	HISTORY_PARSE_FAILED  ErrorCode = "HISTORY_PARSE_FAILED"
)

// ParleyError represents a structured error with error code, message, and optional cause.
// It supports error wrapping and retryability hints for error handling logic.
type ParleyError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *ParleyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *ParleyError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a ParleyError with the same Code.
func (e *ParleyError) Is(target error) bool {
	var parleyErr *ParleyError
	if errors.As(target, &parleyErr) {
		return e.Code == parleyErr.Code
	}
	return false
}

// NewError creates a new non-retryable ParleyError with the given code and message.
func NewError(code ErrorCode, message string) *ParleyError {
	return &ParleyError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable ParleyError with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., network timeouts).
func NewRetryableError(code ErrorCode, message string) *ParleyError {
	return &ParleyError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable ParleyError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *ParleyError {
	return &ParleyError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

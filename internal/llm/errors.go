package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/parley-ai/parley/internal/types"
)

// LLM error codes follow the Parley error pattern
const (
	// Provider errors
	ErrProviderNotFound     types.ErrorCode = "LLM_PROVIDER_NOT_FOUND"
	ErrProviderInitFailed   types.ErrorCode = "LLM_PROVIDER_INIT_FAILED"
	ErrProviderUnavailable  types.ErrorCode = "LLM_PROVIDER_UNAVAILABLE"
	ErrProviderUnauthorized types.ErrorCode = "LLM_PROVIDER_UNAUTHORIZED"
	ErrProviderRateLimited  types.ErrorCode = "LLM_PROVIDER_RATE_LIMITED"

	// Request errors
	ErrInvalidRequest types.ErrorCode = "LLM_INVALID_REQUEST"
	ErrInvalidMessage types.ErrorCode = "LLM_INVALID_MESSAGE"

	// Completion errors
	ErrCompletionFailed    types.ErrorCode = "LLM_COMPLETION_FAILED"
	ErrResponseParseFailed types.ErrorCode = "LLM_RESPONSE_PARSE_FAILED"
	ErrInvalidResponse     types.ErrorCode = "LLM_INVALID_RESPONSE"
	ErrTimeoutExceeded     types.ErrorCode = "LLM_TIMEOUT_EXCEEDED"
	ErrContextCanceled     types.ErrorCode = "LLM_CONTEXT_CANCELED"

	// Network errors
	ErrNetworkFailed  types.ErrorCode = "LLM_NETWORK_FAILED"
	ErrNetworkTimeout types.ErrorCode = "LLM_NETWORK_TIMEOUT"
)

// IsRetryable determines if an error is transient and may succeed on retry.
// The turn pipeline itself never retries (a failed call falls straight back),
// but callers outside the pipeline use this for health probing.
func IsRetryable(err error) bool {
	var parleyErr *types.ParleyError
	if !errors.As(err, &parleyErr) {
		return false
	}

	if parleyErr.Retryable {
		return true
	}

	switch parleyErr.Code {
	case ErrNetworkFailed, ErrNetworkTimeout:
		return true
	case ErrProviderRateLimited:
		return true
	case ErrProviderUnavailable:
		return true
	case ErrTimeoutExceeded:
		return true
	case ErrContextCanceled:
		return false
	case ErrProviderUnauthorized:
		return false
	case ErrInvalidRequest, ErrInvalidMessage:
		return false
	default:
		return false
	}
}

// NewProviderNotFoundError creates an error for when a provider is not found
func NewProviderNotFoundError(providerName string) *types.ParleyError {
	return types.NewError(ErrProviderNotFound, "provider not found: "+providerName)
}

// NewProviderUnavailableError creates a retryable error for when a provider is temporarily unavailable
func NewProviderUnavailableError(providerName string, cause error) *types.ParleyError {
	return &types.ParleyError{
		Code:      ErrProviderUnavailable,
		Message:   "provider temporarily unavailable: " + providerName,
		Retryable: true,
		Cause:     cause,
	}
}

// NewRateLimitError creates a retryable error for rate limiting
func NewRateLimitError(providerName string) *types.ParleyError {
	return &types.ParleyError{
		Code:      ErrProviderRateLimited,
		Message:   "rate limit exceeded for provider: " + providerName,
		Retryable: true,
		Cause:     nil,
	}
}

// NewInvalidRequestError creates an error for invalid requests
func NewInvalidRequestError(message string) *types.ParleyError {
	return types.NewError(ErrInvalidRequest, message)
}

// NewCompletionError creates an error for completion failures
func NewCompletionError(message string, cause error) *types.ParleyError {
	return types.WrapError(ErrCompletionFailed, message, cause)
}

// NewParseError creates an error for responses that fail schema extraction
func NewParseError(message string, cause error) *types.ParleyError {
	return types.WrapError(ErrResponseParseFailed, message, cause)
}

// NewNetworkError creates a retryable error for network failures
func NewNetworkError(message string, cause error) *types.ParleyError {
	return &types.ParleyError{
		Code:      ErrNetworkFailed,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// NewTimeoutError creates a retryable error for timeout failures
func NewTimeoutError(message string) *types.ParleyError {
	return &types.ParleyError{
		Code:      ErrTimeoutExceeded,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// NewAuthError creates an authentication error for provider integration
func NewAuthError(provider string, err error) error {
	return NewProviderUnauthorizedError(provider, err)
}

// NewProviderError creates a generic provider error
func NewProviderError(provider string, err error) error {
	if err == nil {
		return NewProviderUnavailableError(provider, fmt.Errorf("unknown error"))
	}
	return NewProviderUnavailableError(provider, err)
}

// TranslateError translates transport-layer errors into Parley errors
// based on error message content
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	// Already typed, pass through
	var parleyErr *types.ParleyError
	if errors.As(err, &parleyErr) {
		return err
	}

	errMsg := err.Error()
	lowerMsg := strings.ToLower(errMsg)

	switch {
	case strings.Contains(lowerMsg, "unauthorized") || strings.Contains(lowerMsg, "authentication") || strings.Contains(lowerMsg, "api key"):
		return NewProviderUnauthorizedError(provider, err)
	case strings.Contains(lowerMsg, "rate limit") || strings.Contains(lowerMsg, "too many requests"):
		return NewRateLimitError(provider)
	case strings.Contains(lowerMsg, "timeout") || strings.Contains(lowerMsg, "deadline"):
		return NewTimeoutError(errMsg)
	case strings.Contains(lowerMsg, "network") || strings.Contains(lowerMsg, "connection"):
		return NewNetworkError(errMsg, err)
	case strings.Contains(lowerMsg, "not found"):
		return NewProviderNotFoundError(provider)
	default:
		return NewProviderUnavailableError(provider, err)
	}
}

// NewProviderUnauthorizedError creates an unauthorized provider error
func NewProviderUnauthorizedError(providerName string, cause error) *types.ParleyError {
	return &types.ParleyError{
		Code:    ErrProviderUnauthorized,
		Message: fmt.Sprintf("provider '%s' authentication failed", providerName),
		Cause:   cause,
	}
}

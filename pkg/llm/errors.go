package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType indicates which part of the LLM configuration or call failed.
type ErrorType string

const (
	ErrorTypeEndpoint ErrorType = "endpoint"
	ErrorTypeAuth     ErrorType = "auth"
	ErrorTypeModel    ErrorType = "model"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// Error represents a structured LLM error with classification.
type Error struct {
	Type       ErrorType // Classification of the error
	Message    string    // Human-readable message
	Retryable  bool      // Whether the operation can be retried
	Cause      error     // Underlying error
	StatusCode int       // HTTP status code if applicable
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	parts = append(parts, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable implements the retry.RetryableError interface.
// This allows the retry package to check retryability without importing llm.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// NewError creates a new structured LLM error.
func NewError(errType ErrorType, message string, retryable bool, cause error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// ClassifyError categorizes an error and returns a structured Error.
// This consolidates error classification logic for consistent handling.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	statusCode := 0
	for _, code := range []int{400, 401, 403, 404, 429, 500, 502, 503, 504} {
		if strings.Contains(errStr, fmt.Sprintf("%d", code)) {
			statusCode = code
			break
		}
	}

	// Authentication errors (not retryable)
	if strings.Contains(errStr, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") {
		classified := NewError(ErrorTypeAuth, "authentication failed", false, err)
		classified.StatusCode = statusCode
		return classified
	}

	// Model not found (not retryable without config change)
	if strings.Contains(lower, "model") && (strings.Contains(lower, "not found") ||
		strings.Contains(lower, "does not exist")) {
		classified := NewError(ErrorTypeModel, "model not found", false, err)
		classified.StatusCode = statusCode
		return classified
	}

	// Endpoint not found (not retryable without config change)
	if strings.Contains(errStr, "404") {
		classified := NewError(ErrorTypeEndpoint, "endpoint not found", false, err)
		classified.StatusCode = statusCode
		return classified
	}

	// Connection errors (retryable)
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") {
		classified := NewError(ErrorTypeEndpoint, "connection failed", true, err)
		classified.StatusCode = statusCode
		return classified
	}

	// Timeout and deadline exceeded (retryable)
	if strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline exceeded") ||
		strings.Contains(lower, "context canceled") {
		classified := NewError(ErrorTypeEndpoint, "request timeout", true, err)
		classified.StatusCode = statusCode
		return classified
	}

	// Rate limiting (retryable after backoff)
	if strings.Contains(errStr, "429") || strings.Contains(lower, "rate limit") {
		classified := NewError(ErrorTypeUnknown, "rate limited", true, err)
		classified.StatusCode = statusCode
		return classified
	}

	// Server errors (retryable)
	if statusCode >= 500 {
		classified := NewError(ErrorTypeEndpoint, "server error", true, err)
		classified.StatusCode = statusCode
		return classified
	}

	classified := NewError(ErrorTypeUnknown, "request failed", false, err)
	classified.StatusCode = statusCode
	return classified
}

// Package errors provides standardized error handling for the console.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Transport
	ErrCodeFetchError ErrorCode = "FETCH_ERROR"

	// Backend answered with a non-2xx status
	ErrCodeBackendRejected ErrorCode = "BACKEND_REJECTED"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"

	// Local input checks
	ErrCodeInvalidFilterFormat ErrorCode = "INVALID_FILTER_FORMAT"
	ErrCodeInvalidAmount       ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"

	// Onboarding
	ErrCodeWorkflowStepFailed ErrorCode = "WORKFLOW_STEP_FAILED"

	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns the error with an extra metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewFetchError reports that the backend could not be reached or answered
// with a body that is not JSON.
func NewFetchError(target string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeFetchError,
		Message:   "Fetch Error",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"target": target},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewBackendRejectedError carries the message the backend returned with a
// non-2xx status.
func NewBackendRejectedError(status int, message string) *StandardError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &StandardError{
		Code:      ErrCodeBackendRejected,
		Message:   message,
		Retryable: false,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates a not-found error for a detail fetch.
func NewNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFilterFormatError creates a non-retryable filter error.
func NewInvalidFilterFormatError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilterFormat,
		Message:   "Invalid filter format",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidAmountError rejects a balance amount before any request is sent.
func NewInvalidAmountError(raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidAmount,
		Message:   "Amount must be a positive whole number",
		Details:   fmt.Sprintf("amount: %q", raw),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidTransitionError rejects an onboarding status change.
func NewInvalidTransitionError(message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidTransition,
		Message:   message,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError wraps form or payload validation messages.
func NewValidationFailedError(messages []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Please correct the highlighted fields",
		Details:   strings.Join(messages, "; "),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowStepFailedError reports a failed onboarding step.
func NewWorkflowStepFailedError(step, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowStepFailed,
		Message:   message,
		Details:   fmt.Sprintf("step: %s", step),
		Retryable: false,
		Metadata:  map[string]interface{}{"step": step},
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected error.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Helpers
// ==========================

// AsStandard returns the StandardError in err's chain, if any.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == code
}

// IsFetchError reports whether err is a transport failure.
func IsFetchError(err error) bool {
	return HasCode(err, ErrCodeFetchError)
}

// GetErrorCategory maps an error code onto the user-facing taxonomy.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeFetchError:
		return "transport"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeWorkflowStepFailed:
		return "partial_workflow"
	case ErrCodeBackendRejected, ErrCodeInvalidFilterFormat, ErrCodeInvalidAmount,
		ErrCodeInvalidTransition, ErrCodeValidationFailed:
		return "validation"
	}

	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CONFIG"):
		return "configuration"
	case strings.Contains(codeStr, "INVALID"), strings.Contains(codeStr, "VALIDATION"):
		return "validation"
	default:
		return "internal"
	}
}

// internal/common/errors/handler.go
package errors

import (
	"time"
)

// ErrorHandler turns errors into user-facing messages and logs them.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle normalizes err, logs it and returns the message to show the user.
func (h *ErrorHandler) Handle(err error, fields map[string]interface{}) *StandardError {
	stdErr := h.normalizeError(err)
	h.logError(stdErr, fields)
	return stdErr
}

// UserMessage is the text shown in a notification for err.
func UserMessage(err error) string {
	stdErr, ok := AsStandard(err)
	if !ok {
		return err.Error()
	}
	switch stdErr.Code {
	case ErrCodeFetchError:
		return "Please check your internet and try again..."
	case ErrCodeValidationFailed:
		if stdErr.Details != "" {
			return stdErr.Message + ": " + stdErr.Details
		}
	}
	return stdErr.Message
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func (h *ErrorHandler) logError(stdErr *StandardError, fields map[string]interface{}) {
	if h.logger == nil {
		return
	}
	out := map[string]interface{}{
		"errorCode":     stdErr.Code,
		"errorMessage":  stdErr.Message,
		"errorDetails":  stdErr.Details,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		out[k] = v
	}
	for k, v := range fields {
		out[k] = v
	}

	// Backend rejections and input errors are expected traffic.
	switch GetErrorCategory(stdErr.Code) {
	case "validation", "not_found":
		h.logger.Warn("request rejected", out)
	default:
		h.logger.Error("request failed", out)
	}
}

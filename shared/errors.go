package shared

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	ErrorCategoryConfiguration ErrorCategory = "configuration"
	ErrorCategoryNetwork       ErrorCategory = "network"
	ErrorCategoryTimeout       ErrorCategory = "timeout"
	ErrorCategoryProcessing    ErrorCategory = "processing"
	ErrorCategoryUpstream      ErrorCategory = "upstream"
)

// Result codes carried in API responses. The upstream signals success with
// "00"; any other upstream code is passed through verbatim. The two synthetic
// codes below cover failures the upstream never got a chance to report.
const (
	ResultCodeSuccess     = "00"
	ResultCodeFetchFailed = "99" // transport-level failure (timeout, connection, non-2xx)
	ResultCodeParseFailed = "98" // upstream reachable but payload not interpretable
)

// ServiceError represents a standardized error with additional context
type ServiceError struct {
	Category  ErrorCategory `json:"category"`
	Code      string        `json:"code"`
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Operation string        `json:"operation"`
	Cause     error         `json:"-"` // Original error, not serialized
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// NewServiceError creates a new service error
func NewServiceError(category ErrorCategory, code, message, operation string, cause error) *ServiceError {
	return &ServiceError{
		Category:  category,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Operation: operation,
		Cause:     cause,
	}
}

// ResultCode maps an error to the result code surfaced in API responses.
// Transport-level categories collapse to ResultCodeFetchFailed, processing
// failures to ResultCodeParseFailed; a nil error is success.
func ResultCode(err error) string {
	if err == nil {
		return ResultCodeSuccess
	}
	if se, ok := err.(*ServiceError); ok {
		switch se.Category {
		case ErrorCategoryNetwork, ErrorCategoryTimeout:
			return ResultCodeFetchFailed
		case ErrorCategoryProcessing:
			return ResultCodeParseFailed
		}
	}
	return ResultCodeFetchFailed
}

// LogError logs the error with structured fields
func (e *ServiceError) LogError() {
	logrus.WithFields(logrus.Fields{
		"error_category":   e.Category,
		"error_code":       e.Code,
		"error_message":    e.Message,
		"operation":        e.Operation,
		"underlying_error": e.Cause,
	}).Error("Service error occurred")
}

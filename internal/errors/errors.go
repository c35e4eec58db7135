// Package errors defines the service error taxonomy shared by all
// application layers. Every failure surfaced to a client maps to exactly
// one ServiceError with a stable code and an HTTP status.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes exposed to clients and logs.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeRateLimited       = "RATE_LIMIT_EXCEEDED"
	CodeInternal          = "INTERNAL_ERROR"
)

// ServiceError is the canonical error carried across service boundaries.
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *ServiceError) Error() string {
	return e.Message
}

// Validation reports malformed or out-of-range input (HTTP 400).
func Validation(format string, args ...interface{}) *ServiceError {
	return &ServiceError{
		Code:       CodeValidation,
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: http.StatusBadRequest,
	}
}

// NotFound reports an unknown entity id (HTTP 404).
func NotFound(format string, args ...interface{}) *ServiceError {
	return &ServiceError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: http.StatusNotFound,
	}
}

// InvalidTransition reports an illegal state change (HTTP 409).
func InvalidTransition(format string, args ...interface{}) *ServiceError {
	return &ServiceError{
		Code:       CodeInvalidTransition,
		Message:    fmt.Sprintf(format, args...),
		HTTPStatus: http.StatusConflict,
	}
}

// Unauthorized reports a missing or invalid credential (HTTP 401).
func Unauthorized(message string) *ServiceError {
	return &ServiceError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// RateLimitExceeded reports that the caller exhausted its request budget.
func RateLimitExceeded(limit int, window string) *ServiceError {
	return &ServiceError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("rate limit of %d requests per %s exceeded", limit, window),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// Internal wraps an unexpected failure (HTTP 500). The underlying cause is
// not exposed to clients.
func Internal(message string) *ServiceError {
	return &ServiceError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// AsService extracts a ServiceError from an error chain, or nil.
func AsService(err error) *ServiceError {
	var svcErr *ServiceError
	if stderrors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// IsNotFound reports whether err carries the NOT_FOUND code.
func IsNotFound(err error) bool {
	if svcErr := AsService(err); svcErr != nil {
		return svcErr.Code == CodeNotFound
	}
	return false
}

// IsValidation reports whether err carries the VALIDATION_ERROR code.
func IsValidation(err error) bool {
	if svcErr := AsService(err); svcErr != nil {
		return svcErr.Code == CodeValidation
	}
	return false
}

// IsInvalidTransition reports whether err carries the INVALID_TRANSITION code.
func IsInvalidTransition(err error) bool {
	if svcErr := AsService(err); svcErr != nil {
		return svcErr.Code == CodeInvalidTransition
	}
	return false
}

// HTTPStatus resolves the HTTP status for an arbitrary error. Unknown
// errors map to 500.
func HTTPStatus(err error) int {
	if svcErr := AsService(err); svcErr != nil {
		return svcErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

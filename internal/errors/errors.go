// Package errors defines the service error taxonomy shared by the catalogue
// components and the HTTP layer.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies the kind of a ServiceError.
type ErrorCode string

const (
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeDenied            ErrorCode = "DENIED"
	CodeStoreUnavailable  ErrorCode = "STORE_UNAVAILABLE"
	CodeStoreTimeout      ErrorCode = "STORE_TIMEOUT"
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	CodeInvalidToken      ErrorCode = "INVALID_TOKEN"
	CodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// unavailableMessage is the only text clients ever see for store failures.
const unavailableMessage = "service unavailable"

// ServiceError carries a code, a client-safe message and the wrapped cause.
type ServiceError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is matches any ServiceError with the same code.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetails returns a copy of the error with an extra detail entry.
func (e *ServiceError) WithDetails(key string, value any) *ServiceError {
	cp := *e
	cp.Details = make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		cp.Details[k] = v
	}
	cp.Details[key] = value
	return &cp
}

func newError(code ErrorCode, status int, message string, cause error) *ServiceError {
	return &ServiceError{Code: code, Message: message, HTTPStatus: status, Err: cause}
}

// Validation reports malformed or missing user input.
func Validation(format string, args ...any) *ServiceError {
	return newError(CodeValidation, http.StatusBadRequest, fmt.Sprintf(format, args...), nil)
}

// NotFound reports that the referenced entity does not exist.
func NotFound(resource, id string) *ServiceError {
	return newError(CodeNotFound, http.StatusNotFound, fmt.Sprintf("%s not found", resource), nil).
		WithDetails("id", id)
}

// Denied reports an authenticated caller that is not permitted to act.
func Denied(message string) *ServiceError {
	return newError(CodeDenied, http.StatusForbidden, message, nil)
}

// StoreUnavailable wraps a backing store failure. A context expiry becomes
// the timeout variant.
func StoreUnavailable(operation string, cause error) *ServiceError {
	if stderrors.Is(cause, context.DeadlineExceeded) || stderrors.Is(cause, context.Canceled) {
		return StoreTimeout(operation, cause)
	}
	return newError(CodeStoreUnavailable, http.StatusServiceUnavailable, unavailableMessage, cause).
		WithDetails("operation", operation)
}

// StoreTimeout reports a store call abandoned because its context expired.
func StoreTimeout(operation string, cause error) *ServiceError {
	return newError(CodeStoreTimeout, http.StatusServiceUnavailable, unavailableMessage, cause).
		WithDetails("operation", operation)
}

// Unauthorized reports a missing or unusable identity.
func Unauthorized(message string) *ServiceError {
	if message == "" {
		message = "authentication required"
	}
	return newError(CodeUnauthorized, http.StatusUnauthorized, message, nil)
}

// InvalidToken reports a bearer token that failed verification.
func InvalidToken(cause error) *ServiceError {
	return newError(CodeInvalidToken, http.StatusUnauthorized, "invalid or expired token", cause)
}

// RateLimitExceeded reports a throttled caller.
func RateLimitExceeded(limit int, window string) *ServiceError {
	return newError(CodeRateLimitExceeded, http.StatusTooManyRequests, "rate limit exceeded", nil).
		WithDetails("limit", limit).
		WithDetails("window", window)
}

// Internal reports an unexpected failure.
func Internal(message string, cause error) *ServiceError {
	return newError(CodeInternal, http.StatusInternalServerError, message, cause)
}

// GetServiceError extracts the first ServiceError in err's chain.
func GetServiceError(err error) *ServiceError {
	var svcErr *ServiceError
	if stderrors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// CodeOf returns the code of err, or CodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if svcErr := GetServiceError(err); svcErr != nil {
		return svcErr.Code
	}
	return CodeInternal
}

func IsValidation(err error) bool { return CodeOf(err) == CodeValidation }

func IsNotFound(err error) bool { return CodeOf(err) == CodeNotFound }

func IsDenied(err error) bool { return CodeOf(err) == CodeDenied }

// IsStoreUnavailable is true for both store failure variants.
func IsStoreUnavailable(err error) bool {
	code := CodeOf(err)
	return code == CodeStoreUnavailable || code == CodeStoreTimeout
}

func IsTimeout(err error) bool { return CodeOf(err) == CodeStoreTimeout }

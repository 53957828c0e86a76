// Package apperrors defines the coded errors returned across service
// boundaries and their HTTP mapping.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	ErrCodeValidationFailed         ErrorCode = "VALIDATION_FAILED"
	ErrCodeReferenceDataUnavailable ErrorCode = "REFERENCE_DATA_UNAVAILABLE"
	ErrCodeScreenerNotFound         ErrorCode = "SCREENER_NOT_FOUND"
	ErrCodeScreenerUnavailable      ErrorCode = "SCREENER_UNAVAILABLE"
	ErrCodeUnauthorized             ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal                 ErrorCode = "INTERNAL"
)

// AppError is a structured error carrying a code and optional details.
type AppError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   []string  `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	cause     error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// NewValidationError reports a malformed submission.
func NewValidationError(details ...string) *AppError {
	return &AppError{
		Code:    ErrCodeValidationFailed,
		Message: "invalid submission",
		Details: details,
	}
}

// NewReferenceDataUnavailableError reports that mappings or criteria could not be loaded.
func NewReferenceDataUnavailableError(cause error) *AppError {
	return &AppError{
		Code:      ErrCodeReferenceDataUnavailable,
		Message:   "scoring reference data is unavailable",
		Retryable: true,
		cause:     cause,
	}
}

// NewScreenerNotFoundError reports a missing screener document.
func NewScreenerNotFoundError(id string) *AppError {
	return &AppError{
		Code:    ErrCodeScreenerNotFound,
		Message: "screener not found",
		Details: []string{"id: " + id},
	}
}

// NewScreenerUnavailableError reports a store failure while loading a screener.
func NewScreenerUnavailableError(cause error) *AppError {
	return &AppError{
		Code:      ErrCodeScreenerUnavailable,
		Message:   "failed to load screener data",
		Retryable: true,
		cause:     cause,
	}
}

// NewUnauthorizedError reports missing or bad credentials.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal error",
		cause:   cause,
	}
}

// As extracts an *AppError from err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

// HTTPStatus maps err to a response status. Uncoded errors are 500.
func HTTPStatus(err error) int {
	appErr, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeReferenceDataUnavailable, ErrCodeScreenerUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeScreenerNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

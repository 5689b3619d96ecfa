package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode is the stable machine-readable code attached to every AppError.
type ErrorCode string

const (
	ErrValidation    ErrorCode = "VALIDATION_ERROR"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrConflict      ErrorCode = "CONFLICT_ERROR"
	ErrExtraction    ErrorCode = "EXTRACTION_ERROR"
	ErrUpstream      ErrorCode = "UPSTREAM_ERROR"
	ErrConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrPersistence   ErrorCode = "PERSISTENCE_ERROR"
	ErrInternal      ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error code to its HTTP status. It satisfies the
// interface{ StatusCode() int } contract the error middleware looks for.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors
func Validation(message string, err error) *AppError {
	return &AppError{Code: ErrValidation, Message: message, Err: err}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{Code: ErrConflict, Message: message}
}

func Extraction(message string, err error) *AppError {
	return &AppError{Code: ErrExtraction, Message: message, Err: err}
}

func Upstream(message, details string, err error) *AppError {
	return &AppError{Code: ErrUpstream, Message: message, Details: details, Err: err}
}

func Configuration(message string) *AppError {
	return &AppError{Code: ErrConfiguration, Message: message}
}

func Persistence(message string, err error) *AppError {
	return &AppError{Code: ErrPersistence, Message: message, Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}

// From extracts the AppError from err's chain, wrapping unknown errors as
// internal so the boundary always has a typed error to map.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

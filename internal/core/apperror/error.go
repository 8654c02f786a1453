// Package apperror provides structured error handling following RFC 7807 Problem Details.
// Handlers return AppError (or plain errors, which become INTERNAL_ERROR) for
// consistent API responses.
package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"qfilter/pkg/filters"
)

// Error codes
const (
	// Infrastructure errors (5xx)
	CodeInternal      = "INTERNAL_ERROR"
	CodeDatabase      = "DATABASE_ERROR"
	CodeTimeout       = "TIMEOUT_ERROR"
	CodeMisconfigured = "IMPROPERLY_CONFIGURED"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type of the HTTP layer.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, ids, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// --- Factory functions for common errors ---

// NewFilterValidation reports rejected query parameters (400). Details map
// each parameter to its errors.
func NewFilterValidation(errs filters.Errors) *AppError {
	details := make(map[string]any, len(errs))
	for name, fe := range errs {
		details[name] = fe
	}
	return &AppError{
		Code:       CodeValidation,
		Message:    "Invalid filter parameters",
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
		Err:        errs,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewDatabase creates a storage failure error (hides details from client)
func NewDatabase(err error) *AppError {
	return &AppError{
		Code:       CodeDatabase,
		Message:    "Database error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewTimeout creates a timeout error (504)
func NewTimeout(err error) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    "Request timed out",
		HTTPStatus: http.StatusGatewayTimeout,
		Err:        err,
	}
}

// NewMisconfigured reports a broken filter schema. The schema is a
// server-side defect, so the reason stays out of the response.
func NewMisconfigured(err error) *AppError {
	return &AppError{
		Code:       CodeMisconfigured,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// --- Helper functions ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// From classifies any error as an AppError.
func From(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	if errs, ok := filters.AsErrors(err); ok {
		return NewFilterValidation(errs)
	}
	switch {
	case errors.Is(err, filters.ErrImproperlyConfigured):
		return NewMisconfigured(err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewTimeout(err)
	}
	return NewInternal(err)
}

// IsValidation checks if error is CodeValidation
func IsValidation(err error) bool {
	return From(err).Code == CodeValidation
}

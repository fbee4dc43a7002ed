// Package apperror provides structured error handling for the platform.
// All business errors must use AppError for consistent API responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes grouped by concern
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors (400)
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidAmount   = "INVALID_AMOUNT"
	CodeInvalidQuantity = "INVALID_QUANTITY"

	// Business rule violations (422)
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeUnknownHSNCode    = "UNKNOWN_HSN_CODE"
	CodeEditWindowExpired = "EDIT_WINDOW_EXPIRED"

	// Internal consistency failures (500) - never user input
	CodeBalanceInvariant = "BALANCE_INVARIANT_VIOLATION"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict  = "CONFLICT"
	CodeDuplicate = "DUPLICATE_ENTRY"
)

// AppError is the standard error type for the platform.
// It implements the error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (field errors, quantities, etc.)
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

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for common errors ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidAmount creates an error for malformed or negative monetary input (400)
func NewInvalidAmount(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidAmount,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidQuantity creates an error for a non-positive quantity (400)
func NewInvalidQuantity(quantity int64) *AppError {
	return &AppError{
		Code:       CodeInvalidQuantity,
		Message:    "quantity must be positive",
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"quantity": quantity},
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

// NewInsufficientStock creates a stock shortage error (422).
// Raised both on upfront checks and when a concurrent sale wins the race at commit time.
func NewInsufficientStock(itemID string, requested, available int64) *AppError {
	return &AppError{
		Code:       CodeInsufficientStock,
		Message:    "insufficient stock",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details: map[string]any{
			"item_id":   itemID,
			"requested": requested,
			"available": available,
		},
	}
}

// NewUnknownHSNCode creates a tax rate lookup failure (422).
// Silent defaulting is forbidden: an unknown code risks statutory misfiling.
func NewUnknownHSNCode(hsn string) *AppError {
	return &AppError{
		Code:       CodeUnknownHSNCode,
		Message:    "no GST rate registered for HSN code",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"hsn_code": hsn},
	}
}

// NewEditWindowExpired creates an error for a late mutation attempt (422)
func NewEditWindowExpired(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeEditWindowExpired,
		Message:    fmt.Sprintf("%s can no longer be edited", entity),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBalanceInvariant creates an internal ledger consistency error (500).
// Fatal for the enclosing transaction; must be escalated, never surfaced as
// a user input problem.
func NewBalanceInvariant(accountID string, cached, computed string) *AppError {
	return &AppError{
		Code:       CodeBalanceInvariant,
		Message:    "cached balance diverged from transaction log",
		HTTPStatus: http.StatusInternalServerError,
		Details: map[string]any{
			"account_id": accountID,
			"cached":     cached,
			"computed":   computed,
		},
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

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409)
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsInsufficientStock checks if error is CodeInsufficientStock
func IsInsufficientStock(err error) bool {
	return hasCode(err, CodeInsufficientStock)
}

// IsBalanceInvariant checks if error is CodeBalanceInvariant
func IsBalanceInvariant(err error) bool {
	return hasCode(err, CodeBalanceInvariant)
}

func hasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

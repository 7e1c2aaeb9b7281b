// Package errors provides custom error types for the tracker API.
// All service-layer errors should use AppError so that responses stay
// consistent and never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Portfolio and holding errors.
var (
	ErrPortfolioNotFound = &AppError{Code: "PORTFOLIO_NOT_FOUND", Message: "Portfolio not found", StatusCode: http.StatusNotFound}
	ErrHoldingNotFound   = &AppError{Code: "HOLDING_NOT_FOUND", Message: "Holding not found", StatusCode: http.StatusNotFound}
)

// Alert errors.
var (
	ErrAlertNotFound    = &AppError{Code: "ALERT_NOT_FOUND", Message: "Alert not found", StatusCode: http.StatusNotFound}
	ErrInvalidCondition = &AppError{Code: "INVALID_CONDITION", Message: "Alert condition must be 'above' or 'below'", StatusCode: http.StatusBadRequest}
	ErrInvalidEmail     = &AppError{Code: "INVALID_EMAIL", Message: "A valid email address is required", StatusCode: http.StatusBadRequest}
)

// Price and analytics errors.
//
// ErrProviderUnavailable never crosses the price service boundary: a failed
// quote fetch degrades to a synthetic price instead. ErrPriceLookup marks a
// cache/store substrate failure and surfaces as a per-holding price error.
// ErrComputation is the only analytics error callers are expected to see.
var (
	ErrProviderUnavailable = &AppError{Code: "PROVIDER_UNAVAILABLE", Message: "Quote provider unavailable", StatusCode: http.StatusBadGateway}
	ErrPriceLookup         = &AppError{Code: "PRICE_LOOKUP_FAILED", Message: "Price lookup failed", StatusCode: http.StatusInternalServerError}
	ErrHistoryUnavailable  = &AppError{Code: "HISTORY_UNAVAILABLE", Message: "Price history unavailable", StatusCode: http.StatusInternalServerError}
	ErrDeliveryFailed      = &AppError{Code: "DELIVERY_FAILED", Message: "Notification delivery failed", StatusCode: http.StatusBadGateway}
	ErrComputation         = &AppError{Code: "COMPUTATION_FAILED", Message: "Risk computation failed", StatusCode: http.StatusInternalServerError}
)

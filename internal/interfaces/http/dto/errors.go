package dto

import "net/http"

// Error codes shared with the frontend. Domain errors carry these codes
// directly; the handler layer only maps them to HTTP statuses.

// General error codes
const (
	ErrCodeUnknown  = "UNKNOWN"
	ErrCodeInternal = "INTERNAL_ERROR"
)

// Input error codes
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeInvalidJSON  = "INVALID_JSON"
)

// Resource error codes
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeSessionNotFound = "SESSION_NOT_FOUND"
	ErrCodeFormNotFound    = "FORM_NOT_REGISTERED"
	ErrCodeRowNotFound     = "ROW_NOT_FOUND"
	ErrCodeAlreadyExists   = "ALREADY_EXISTS"
)

// Form interaction error codes
const (
	ErrCodeUnknownSelector = "UNKNOWN_SELECTOR"
	ErrCodeUnknownField    = "UNKNOWN_FIELD"
	ErrCodeNoTable         = "NO_TABLE"
	ErrCodeMinRows         = "MIN_ROWS"
	ErrCodeDerivedField    = "DERIVED_FIELD"
	ErrCodePinnedLevel     = "PINNED_LEVEL"
)

// Submit lifecycle error codes
const (
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeSubmitBlocked      = "SUBMIT_BLOCKED"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeNoSubmitter        = "NO_SUBMITTER"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	ErrCodeTooManySessions    = "TOO_MANY_SESSIONS"
)

// Auth error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeSessionNotFound: http.StatusNotFound,
	ErrCodeFormNotFound:    http.StatusNotFound,
	ErrCodeRowNotFound:     http.StatusNotFound,
	ErrCodeAlreadyExists:   http.StatusConflict,

	ErrCodeUnknownSelector: http.StatusBadRequest,
	ErrCodeUnknownField:    http.StatusBadRequest,
	ErrCodeNoTable:         http.StatusBadRequest,
	ErrCodeMinRows:         http.StatusUnprocessableEntity,
	ErrCodeDerivedField:    http.StatusBadRequest,
	ErrCodePinnedLevel:     http.StatusForbidden,

	ErrCodeInvalidState:       http.StatusConflict,
	ErrCodeSubmitBlocked:      http.StatusConflict,
	ErrCodeValidationFailed:   http.StatusUnprocessableEntity,
	ErrCodeNoSubmitter:        http.StatusInternalServerError,
	ErrCodeCatalogUnavailable: http.StatusServiceUnavailable,
	ErrCodeTooManySessions:    http.StatusTooManyRequests,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

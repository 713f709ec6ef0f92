package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrSessionNotFound    = NewDomainError("SESSION_NOT_FOUND", "Form session not found or already closed")
	ErrFormNotRegistered  = NewDomainError("FORM_NOT_REGISTERED", "No form definition registered under this name")
	ErrCatalogUnavailable = NewDomainError("CATALOG_UNAVAILABLE", "Reference catalog is unavailable")
	ErrSubmitBlocked      = NewDomainError("SUBMIT_BLOCKED", "Form cannot be submitted in its current state")
	ErrSubmitFailed       = NewDomainError("SUBMIT_FAILED", "Form submission was rejected")
)

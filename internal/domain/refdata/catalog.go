package refdata

import (
	"context"
	"errors"
	"fmt"
)

// Catalog fetches selectable reference records for one entity kind.
// A nil parent requests the full (root) collection; a non-nil parent
// restricts the result to children of that key.
type Catalog interface {
	Name() string
	Fetch(ctx context.Context, parent *Identifier) ([]ReferenceRecord, error)
}

// UnavailableError signals that a catalog could not produce records.
// It is always retryable: the affected level degrades to "no options",
// unrelated levels keep working.
type UnavailableError struct {
	Catalog string
	Err     error
}

// Error implements the error interface
func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog %s unavailable: %v", e.Catalog, e.Err)
	}
	return fmt.Sprintf("catalog %s unavailable", e.Catalog)
}

// Unwrap returns the underlying cause
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// NewUnavailableError wraps a fetch failure for the named catalog
func NewUnavailableError(catalog string, err error) *UnavailableError {
	return &UnavailableError{Catalog: catalog, Err: err}
}

// IsUnavailable reports whether err is a catalog availability failure
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

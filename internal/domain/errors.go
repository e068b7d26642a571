package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidQuery signals a query the validator rejected.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidDocument signals a document record that failed validation.
	ErrInvalidDocument = errors.New("invalid document")
)

// InvalidQueryError wraps ErrInvalidQuery with the validator's reasons.
// It is caller input, never a server fault.
type InvalidQueryError struct {
	Reasons []string
}

func (e *InvalidQueryError) Error() string {
	return ErrInvalidQuery.Error() + ": " + strings.Join(e.Reasons, "; ")
}

func (e *InvalidQueryError) Unwrap() error { return ErrInvalidQuery }

// NewInvalidQuery creates an invalid-query error from validator output.
func NewInvalidQuery(reasons []string) error {
	return &InvalidQueryError{Reasons: reasons}
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds reported by the editing engine. Callers match them with errors.Is.
var (
	// ErrNotFound is returned when a referenced step or component does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation is returned when an operation would violate a
	// structural invariant, e.g. removing the last remaining step.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInvalidDocument is returned when a document fails shape validation at load time.
	ErrInvalidDocument = errors.New("invalid document")
)

// ErrDocumentNotFound is returned by stores when a document id is unknown.
// It matches ErrNotFound as well.
var ErrDocumentNotFound = fmt.Errorf("document %w", ErrNotFound)

// OpError describes a rejected edit operation.
type OpError struct {
	Op  string // e.g. "insert_component"
	ID  string // the targeted step or component id, if any
	Err error
}

func (e *OpError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.ID, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// NotFound builds an OpError of kind ErrNotFound.
func NotFound(op, id string) error {
	return &OpError{Op: op, ID: id, Err: ErrNotFound}
}

// Invalid builds an OpError of kind ErrInvalidOperation with a reason.
func Invalid(op, id, reason string) error {
	return &OpError{Op: op, ID: id, Err: fmt.Errorf("%w: %s", ErrInvalidOperation, reason)}
}

// ValidationError aggregates every problem found in a document.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("invalid document: %s", e.Issues[0])
	}
	return fmt.Sprintf("invalid document: %d issues: %s", len(e.Issues), strings.Join(e.Issues, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidDocument }

package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations use.
var (
	// ErrNodeMetamodelNotFound indicates a node metamodel was not found by id.
	ErrNodeMetamodelNotFound = errors.New("node metamodel not found")

	// ErrWorkflowNotFound indicates a workflow metamodel was not found by id.
	ErrWorkflowNotFound = errors.New("workflow not found")
)

// StoreError wraps a persistence failure with the operation and subject.
type StoreError struct {
	Op  string // Operation being performed (e.g. "SaveWorkflow")
	ID  string // Subject id if applicable
	Err error
}

func (e *StoreError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a store error with context.
func NewStoreError(op, id string, err error) *StoreError {
	return &StoreError{Op: op, ID: id, Err: err}
}

// IsNotFound checks whether an error indicates a missing metamodel of
// either catalog.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeMetamodelNotFound) || errors.Is(err, ErrWorkflowNotFound)
}

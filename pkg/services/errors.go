package services

import "errors"

var (
	// ErrWorkflowInvalid is returned when a run is requested for a workflow
	// that fails static validation.
	ErrWorkflowInvalid = errors.New("workflow failed validation")

	// ErrNoWorkflowForIntent is returned when no enabled workflow handles an intent.
	ErrNoWorkflowForIntent = errors.New("no workflow handles the intent")
)

// IsValidationError checks whether an error stems from request payload or
// workflow validation rather than infrastructure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrWorkflowInvalid)
}

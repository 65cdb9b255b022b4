// Package web provides the REST API for managing and running workflows.
package web

import "github.com/fluxion-ai/fluxion/pkg/validation"

// RunWorkflowRequest is the request body for starting a workflow run.
type RunWorkflowRequest struct {
	Seed map[string]any `json:"seed,omitempty"`
}

// ValidationResponse wraps a validation result for API responses.
type ValidationResponse struct {
	Valid    bool               `json:"valid"`
	Errors   []validation.Issue `json:"errors"`
	Warnings []validation.Issue `json:"warnings"`
}

// NewValidationResponse converts a validation result.
func NewValidationResponse(result validation.Result) ValidationResponse {
	errors := result.Errors
	if errors == nil {
		errors = []validation.Issue{}
	}

	warnings := result.Warnings
	if warnings == nil {
		warnings = []validation.Issue{}
	}

	return ValidationResponse{
		Valid:    !result.HasErrors(),
		Errors:   errors,
		Warnings: warnings,
	}
}

// ResolveIntentResponse names the workflow selected for an intent.
type ResolveIntentResponse struct {
	IntentID   string `json:"intent_id"`
	WorkflowID string `json:"workflow_id"`
	Name       string `json:"name"`
}

// NodeKindResponse describes one registered node kind.
type NodeKindResponse struct {
	Kind        string         `json:"kind"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fluxion-ai/fluxion/pkg/intent"
	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/persistence"
	"github.com/fluxion-ai/fluxion/pkg/validation"
	"github.com/fluxion-ai/fluxion/pkg/workflow"
	"github.com/go-playground/validator/v10"
)

// Workflow manages the workflow catalog and drives validation and runs.
type Workflow struct {
	persistence persistence.Persistence
	validate    *validator.Validate
	validator   *validation.Validator
	executor    *workflow.Executor
	matcher     *intent.Matcher
}

// NewWorkflow wires the workflow service. The executor is externally
// constructed so callers control its instance registry, event publisher
// and tracer.
func NewWorkflow(logger *slog.Logger, p persistence.Persistence, executor *workflow.Executor) *Workflow {
	return &Workflow{
		persistence: p,
		validate:    validator.New(),
		validator:   validation.NewValidator(persistence.NewCatalog(p)),
		executor:    executor,
		matcher:     intent.NewMatcher(logger),
	}
}

// HealthCheck reports the health of the persistence layer.
func (s *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := s.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns every workflow metamodel.
func (s *Workflow) List(ctx context.Context) ([]*models.WorkflowMetamodel, error) {
	return s.persistence.Workflows(ctx)
}

// FetchByID returns one workflow metamodel.
func (s *Workflow) FetchByID(ctx context.Context, id string) (*models.WorkflowMetamodel, error) {
	return s.persistence.WorkflowByID(ctx, id)
}

// Save validates the payload shape and stores a workflow metamodel. Graph
// semantics are not checked here; Validate reports those separately so
// drafts with unresolved references can still be saved.
func (s *Workflow) Save(ctx context.Context, wf *models.WorkflowMetamodel) error {
	if err := s.validate.Struct(wf); err != nil {
		return fmt.Errorf("invalid workflow metamodel: %w", err)
	}

	return s.persistence.SaveWorkflow(ctx, wf)
}

// Delete removes a workflow metamodel.
func (s *Workflow) Delete(ctx context.Context, id string) error {
	return s.persistence.DeleteWorkflow(ctx, id)
}

// Validate runs the static workflow validator against a stored workflow.
func (s *Workflow) Validate(ctx context.Context, id string) (validation.Result, error) {
	wf, err := s.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return validation.Result{}, err
	}

	return s.validator.Validate(ctx, wf), nil
}

// RunResult is the outcome of a completed workflow run.
type RunResult struct {
	ExecutionID string         `json:"execution_id"`
	WorkflowID  string         `json:"workflow_id"`
	Values      map[string]any `json:"values"`
}

// Run validates a stored workflow and executes it with a seeded context.
// A workflow with validation errors never starts.
func (s *Workflow) Run(ctx context.Context, id string, seed map[string]any) (*RunResult, error) {
	wf, err := s.persistence.WorkflowByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.validator.Validate(ctx, wf)
	if result.HasErrors() {
		messages := make([]string, 0, len(result.Errors))
		for _, issue := range result.Errors {
			messages = append(messages, issue.ComponentPath+": "+issue.Message)
		}

		return nil, fmt.Errorf("%w: %s", ErrWorkflowInvalid, strings.Join(messages, "; "))
	}

	execCtx, err := s.executor.Run(ctx, wf, seed)
	if err != nil {
		return nil, err
	}

	return &RunResult{
		ExecutionID: execCtx.ID,
		WorkflowID:  wf.ID,
		Values:      execCtx.Values(),
	}, nil
}

// ResolveIntent returns the workflow that best handles an intent.
func (s *Workflow) ResolveIntent(ctx context.Context, intentID string) (*models.WorkflowMetamodel, error) {
	workflows, err := s.persistence.Workflows(ctx)
	if err != nil {
		return nil, err
	}

	wf, ok := s.matcher.Match(intentID, workflows)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoWorkflowForIntent, intentID)
	}

	return wf, nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/fluxion-ai/fluxion/pkg/cmd"
	"github.com/fluxion-ai/fluxion/pkg/log"
	"github.com/fluxion-ai/fluxion/pkg/persistence"
	"github.com/fluxion-ai/fluxion/pkg/services"
	"github.com/fluxion-ai/fluxion/pkg/workflow"
	cli "github.com/urfave/cli/v3"
)

var errValidationFailed = errors.New("workflow has validation errors")

func newWorkflowService(ctx context.Context, command *cli.Command) (*services.Workflow, func(), error) {
	logger := log.WithModule("cli")

	p, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return nil, nil, err
	}

	registry, err := cmd.NewRegistry(logger, "")
	if err != nil {
		return nil, nil, err
	}

	executor := workflow.NewExecutor(logger, persistence.NewCatalog(p), registry)

	cleanup := func() {
		if err := p.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}

	return services.NewWorkflow(logger, p, executor), cleanup, nil
}

func validateWorkflow(ctx context.Context, command *cli.Command) error {
	workflowID := command.Args().First()
	if workflowID == "" {
		return errors.New("missing workflow id argument")
	}

	service, cleanup, err := newWorkflowService(ctx, command)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := service.Validate(ctx, workflowID)
	if err != nil {
		return err
	}

	for _, issue := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning %s: %s\n", issue.ComponentPath, issue.Message)
	}

	for _, issue := range result.Errors {
		fmt.Fprintf(os.Stderr, "error %s: %s\n", issue.ComponentPath, issue.Message)
	}

	if result.HasErrors() {
		return errValidationFailed
	}

	fmt.Printf("workflow %s is valid\n", workflowID)

	return nil
}

func runWorkflow(ctx context.Context, command *cli.Command) error {
	workflowID := command.Args().First()
	if workflowID == "" {
		return errors.New("missing workflow id argument")
	}

	var seed map[string]any

	if raw := command.String("seed"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &seed); err != nil {
			return fmt.Errorf("invalid seed JSON: %w", err)
		}
	}

	service, cleanup, err := newWorkflowService(ctx, command)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := service.Run(ctx, workflowID, seed)
	if err != nil {
		return err
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(output))

	return nil
}

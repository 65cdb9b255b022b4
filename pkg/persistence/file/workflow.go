package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/persistence"
)

// WorkflowRepository stores workflow metamodels as JSON files under
// <root>/workflows.
type WorkflowRepository struct {
	root string
}

func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

func (r *WorkflowRepository) dir() string {
	return path.Join(r.root, "workflows")
}

// GetAll loads every workflow metamodel, sorted by id.
func (r *WorkflowRepository) GetAll(ctx context.Context) ([]*models.WorkflowMetamodel, error) {
	jsonFiles, err := fs.Glob(os.DirFS(r.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	sort.Strings(jsonFiles)

	workflows := make([]*models.WorkflowMetamodel, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		workflow, err := r.GetByID(ctx, strings.TrimSuffix(file, ".json"))
		if err != nil {
			return nil, err
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

// GetByID loads one workflow metamodel from its JSON file.
func (r *WorkflowRepository) GetByID(_ context.Context, id string) (*models.WorkflowMetamodel, error) {
	filePath := filepath.Clean(path.Join(r.dir(), id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrWorkflowNotFound
		}

		return nil, fmt.Errorf("failed to read workflow %s: %w", id, err)
	}

	var workflow models.WorkflowMetamodel
	if err := json.Unmarshal(body, &workflow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
	}

	return &workflow, nil
}

// Save writes a workflow metamodel to its JSON file.
func (r *WorkflowRepository) Save(_ context.Context, workflow *models.WorkflowMetamodel) error {
	if err := os.MkdirAll(r.dir(), 0750); err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	data, err := json.MarshalIndent(workflow, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", workflow.ID, err)
	}

	return os.WriteFile(path.Join(r.dir(), workflow.ID+".json"), data, 0600)
}

// Delete removes a workflow file. A missing file is not an error.
func (r *WorkflowRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(path.Join(r.dir(), id+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}

func (p *Persistence) Workflows(ctx context.Context) ([]*models.WorkflowMetamodel, error) {
	return p.workflowRepo.GetAll(ctx)
}

func (p *Persistence) WorkflowByID(ctx context.Context, id string) (*models.WorkflowMetamodel, error) {
	return p.workflowRepo.GetByID(ctx, id)
}

func (p *Persistence) SaveWorkflow(ctx context.Context, workflow *models.WorkflowMetamodel) error {
	return p.workflowRepo.Save(ctx, workflow)
}

func (p *Persistence) DeleteWorkflow(ctx context.Context, id string) error {
	return p.workflowRepo.Delete(ctx, id)
}

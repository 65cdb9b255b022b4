package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/persistence"
)

// WorkflowRepository stores workflow metamodels as JSONB documents.
type WorkflowRepository struct {
	db *sql.DB
}

func NewWorkflowRepository(db *sql.DB) *WorkflowRepository {
	return &WorkflowRepository{db: db}
}

// GetAll returns every workflow metamodel ordered by id.
func (r *WorkflowRepository) GetAll(ctx context.Context) ([]*models.WorkflowMetamodel, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT document FROM workflows ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var workflows []*models.WorkflowMetamodel

	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan workflow row: %w", err)
		}

		var workflow models.WorkflowMetamodel
		if err := json.Unmarshal(document, &workflow); err != nil {
			return nil, fmt.Errorf("failed to unmarshal workflow document: %w", err)
		}

		workflows = append(workflows, &workflow)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workflow rows: %w", err)
	}

	return workflows, nil
}

// GetByID returns one workflow metamodel by id.
func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (*models.WorkflowMetamodel, error) {
	var document []byte

	err := r.db.QueryRowContext(ctx, "SELECT document FROM workflows WHERE id = $1", id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrWorkflowNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query workflow %s: %w", id, err)
	}

	var workflow models.WorkflowMetamodel
	if err := json.Unmarshal(document, &workflow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", id, err)
	}

	return &workflow, nil
}

// Save upserts a workflow metamodel document.
func (r *WorkflowRepository) Save(ctx context.Context, workflow *models.WorkflowMetamodel) error {
	document, err := json.Marshal(workflow)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", workflow.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO workflows (id, name, enabled, document)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			enabled = EXCLUDED.enabled,
			document = EXCLUDED.document,
			updated_at = NOW()
	`, workflow.ID, workflow.Name, workflow.Enabled, document)
	if err != nil {
		return persistence.NewStoreError("SaveWorkflow", workflow.ID, err)
	}

	return nil
}

// Delete removes a workflow. A missing row is not an error.
func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = $1", id); err != nil {
		return persistence.NewStoreError("DeleteWorkflow", id, err)
	}

	return nil
}

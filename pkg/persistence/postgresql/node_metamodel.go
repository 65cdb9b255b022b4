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

// NodeMetamodelRepository stores node metamodels as JSONB documents.
type NodeMetamodelRepository struct {
	db *sql.DB
}

func NewNodeMetamodelRepository(db *sql.DB) *NodeMetamodelRepository {
	return &NodeMetamodelRepository{db: db}
}

// GetAll returns every node metamodel ordered by id.
func (r *NodeMetamodelRepository) GetAll(ctx context.Context) ([]*models.NodeMetamodel, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT document FROM node_metamodels ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query node metamodels: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var metamodels []*models.NodeMetamodel

	for rows.Next() {
		var document []byte
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan node metamodel row: %w", err)
		}

		var meta models.NodeMetamodel
		if err := json.Unmarshal(document, &meta); err != nil {
			return nil, fmt.Errorf("failed to unmarshal node metamodel document: %w", err)
		}

		metamodels = append(metamodels, &meta)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate node metamodel rows: %w", err)
	}

	return metamodels, nil
}

// GetByID returns one node metamodel by id.
func (r *NodeMetamodelRepository) GetByID(ctx context.Context, id string) (*models.NodeMetamodel, error) {
	var document []byte

	err := r.db.QueryRowContext(ctx, "SELECT document FROM node_metamodels WHERE id = $1", id).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrNodeMetamodelNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query node metamodel %s: %w", id, err)
	}

	var meta models.NodeMetamodel
	if err := json.Unmarshal(document, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node metamodel %s: %w", id, err)
	}

	return &meta, nil
}

// Save upserts a node metamodel document.
func (r *NodeMetamodelRepository) Save(ctx context.Context, meta *models.NodeMetamodel) error {
	document, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal node metamodel %s: %w", meta.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO node_metamodels (id, kind, enabled, document)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			kind = EXCLUDED.kind,
			enabled = EXCLUDED.enabled,
			document = EXCLUDED.document,
			updated_at = NOW()
	`, meta.ID, string(meta.Kind), meta.Enabled, document)
	if err != nil {
		return persistence.NewStoreError("SaveNodeMetamodel", meta.ID, err)
	}

	return nil
}

// Delete removes a node metamodel. A missing row is not an error.
func (r *NodeMetamodelRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM node_metamodels WHERE id = $1", id); err != nil {
		return persistence.NewStoreError("DeleteNodeMetamodel", id, err)
	}

	return nil
}

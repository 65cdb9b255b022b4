// Package persistence provides the storage abstraction for node
// metamodels and workflow metamodels.
package persistence

import (
	"context"
	"errors"

	"github.com/fluxion-ai/fluxion/pkg/models"
)

// Persistence stores the two metamodel catalogs. Implementations return
// ErrNodeMetamodelNotFound / ErrWorkflowNotFound from the ByID lookups.
type Persistence interface {
	NodeMetamodels(ctx context.Context) ([]*models.NodeMetamodel, error)
	NodeMetamodelByID(ctx context.Context, id string) (*models.NodeMetamodel, error)
	SaveNodeMetamodel(ctx context.Context, meta *models.NodeMetamodel) error
	DeleteNodeMetamodel(ctx context.Context, id string) error

	Workflows(ctx context.Context) ([]*models.WorkflowMetamodel, error)
	WorkflowByID(ctx context.Context, id string) (*models.WorkflowMetamodel, error)
	SaveWorkflow(ctx context.Context, workflow *models.WorkflowMetamodel) error
	DeleteWorkflow(ctx context.Context, id string) error

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// Catalog adapts a persistence layer to the metamodel catalog the
// validator and executor consume: a missing metamodel becomes (nil, nil)
// instead of an error, so callers can report it as a reference issue.
type Catalog struct {
	persistence Persistence
}

func NewCatalog(p Persistence) *Catalog {
	return &Catalog{persistence: p}
}

func (c *Catalog) NodeMetamodelByID(ctx context.Context, id string) (*models.NodeMetamodel, error) {
	meta, err := c.persistence.NodeMetamodelByID(ctx, id)
	if errors.Is(err, ErrNodeMetamodelNotFound) {
		return nil, nil
	}

	return meta, err
}

package protocol

import (
	"context"

	"github.com/fluxion-ai/fluxion/pkg/models"
)

// Catalog resolves node metamodel references. The validator and the
// engine depend on this one lookup; the backing store lives outside the
// execution core.
type Catalog interface {
	NodeMetamodelByID(ctx context.Context, id string) (*models.NodeMetamodel, error)
}

// StaticCatalog is an in-memory catalog over a fixed metamodel set,
// used by tests and the CLI.
type StaticCatalog map[string]*models.NodeMetamodel

func (c StaticCatalog) NodeMetamodelByID(_ context.Context, id string) (*models.NodeMetamodel, error) {
	meta, ok := c[id]
	if !ok {
		return nil, nil
	}

	return meta, nil
}

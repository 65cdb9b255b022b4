// Package services mediates between the HTTP surface and the persistence,
// validation and execution layers.
package services

import (
	"context"
	"fmt"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/persistence"
	"github.com/go-playground/validator/v10"
)

// Metamodel manages the node metamodel catalog.
type Metamodel struct {
	persistence persistence.Persistence
	validate    *validator.Validate
}

func NewMetamodel(p persistence.Persistence) *Metamodel {
	return &Metamodel{
		persistence: p,
		validate:    validator.New(),
	}
}

// List returns every node metamodel.
func (s *Metamodel) List(ctx context.Context) ([]*models.NodeMetamodel, error) {
	return s.persistence.NodeMetamodels(ctx)
}

// FetchByID returns one node metamodel.
func (s *Metamodel) FetchByID(ctx context.Context, id string) (*models.NodeMetamodel, error) {
	return s.persistence.NodeMetamodelByID(ctx, id)
}

// Save validates and stores a node metamodel. Port schemas have already
// been structurally checked during JSON decoding.
func (s *Metamodel) Save(ctx context.Context, meta *models.NodeMetamodel) error {
	if err := s.validate.Struct(meta); err != nil {
		return fmt.Errorf("invalid node metamodel: %w", err)
	}

	return s.persistence.SaveNodeMetamodel(ctx, meta)
}

// Delete removes a node metamodel.
func (s *Metamodel) Delete(ctx context.Context, id string) error {
	return s.persistence.DeleteNodeMetamodel(ctx, id)
}

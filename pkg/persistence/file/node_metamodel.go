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

// NodeMetamodelRepository stores node metamodels as JSON files under
// <root>/node_metamodels.
type NodeMetamodelRepository struct {
	root string
}

func NewNodeMetamodelRepository(root string) *NodeMetamodelRepository {
	return &NodeMetamodelRepository{root: root}
}

func (r *NodeMetamodelRepository) dir() string {
	return path.Join(r.root, "node_metamodels")
}

// GetAll loads every node metamodel, sorted by id.
func (r *NodeMetamodelRepository) GetAll(ctx context.Context) ([]*models.NodeMetamodel, error) {
	jsonFiles, err := fs.Glob(os.DirFS(r.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list node metamodel files: %w", err)
	}

	sort.Strings(jsonFiles)

	metamodels := make([]*models.NodeMetamodel, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		meta, err := r.GetByID(ctx, strings.TrimSuffix(file, ".json"))
		if err != nil {
			return nil, err
		}

		metamodels = append(metamodels, meta)
	}

	return metamodels, nil
}

// GetByID loads one node metamodel from its JSON file.
func (r *NodeMetamodelRepository) GetByID(_ context.Context, id string) (*models.NodeMetamodel, error) {
	filePath := filepath.Clean(path.Join(r.dir(), id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrNodeMetamodelNotFound
		}

		return nil, fmt.Errorf("failed to read node metamodel %s: %w", id, err)
	}

	var meta models.NodeMetamodel
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal node metamodel %s: %w", id, err)
	}

	return &meta, nil
}

// Save writes a node metamodel to its JSON file.
func (r *NodeMetamodelRepository) Save(_ context.Context, meta *models.NodeMetamodel) error {
	if err := os.MkdirAll(r.dir(), 0750); err != nil {
		return fmt.Errorf("failed to create node_metamodels directory: %w", err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal node metamodel %s: %w", meta.ID, err)
	}

	return os.WriteFile(path.Join(r.dir(), meta.ID+".json"), data, 0600)
}

// Delete removes a node metamodel file. A missing file is not an error.
func (r *NodeMetamodelRepository) Delete(_ context.Context, id string) error {
	err := os.Remove(path.Join(r.dir(), id+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete node metamodel %s: %w", id, err)
	}

	return nil
}

func (p *Persistence) NodeMetamodels(ctx context.Context) ([]*models.NodeMetamodel, error) {
	return p.metamodelRepo.GetAll(ctx)
}

func (p *Persistence) NodeMetamodelByID(ctx context.Context, id string) (*models.NodeMetamodel, error) {
	return p.metamodelRepo.GetByID(ctx, id)
}

func (p *Persistence) SaveNodeMetamodel(ctx context.Context, meta *models.NodeMetamodel) error {
	return p.metamodelRepo.Save(ctx, meta)
}

func (p *Persistence) DeleteNodeMetamodel(ctx context.Context, id string) error {
	return p.metamodelRepo.Delete(ctx, id)
}

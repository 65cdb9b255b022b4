// Package file provides file-based persistence: each metamodel is one
// JSON document under the root directory.
package file

import (
	"context"
	"os"
	"strings"
)

// Persistence implements the persistence.Persistence interface using the
// file system.
type Persistence struct {
	root          string
	metamodelRepo *NodeMetamodelRepository
	workflowRepo  *WorkflowRepository
}

// NewPersistence creates a file persistence layer rooted at the given
// directory. A "file://" prefix is stripped.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.TrimPrefix(root, "file://")

	return &Persistence{
		root:          cleanRoot,
		metamodelRepo: NewNodeMetamodelRepository(cleanRoot),
		workflowRepo:  NewWorkflowRepository(cleanRoot),
	}
}

// HealthCheck verifies the root directory exists.
func (p *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(p.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. Nothing is held open for file
// persistence.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

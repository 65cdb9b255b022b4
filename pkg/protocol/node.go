// Package protocol defines the contracts between the execution core and
// its collaborators: node instances, node factories and the metamodel
// catalog.
package protocol

import (
	"context"

	"github.com/fluxion-ai/fluxion/pkg/models"
)

// NodeInstance is the one contract the execution engine depends on. An
// instance reads its inputs from the execution context by port key or
// path, performs its work and writes outputs by port key. Returning an
// error signals a fatal per-node failure that aborts the whole run.
//
// Instances are long-lived and shared across runs (one per metamodel id),
// so implementations must be stateless apart from lazily-initialized
// read-only client handles.
type NodeInstance interface {
	ID() string
	Kind() models.NodeKind
	Process(ctx context.Context, execCtx *models.ExecutionContext) error
}

// NodeFactory creates node instances for one node kind and describes how
// that kind is configured.
type NodeFactory interface {
	// Create builds an instance from a node metamodel. The metamodel's
	// Config has already been validated against Schema.
	Create(ctx context.Context, meta *models.NodeMetamodel) (NodeInstance, error)

	// Kind returns the node kind tag this factory serves.
	Kind() models.NodeKind

	// Name returns the human-readable name for this node kind.
	Name() string

	// Description returns a description of what this node kind does.
	Description() string

	// Schema returns the JSON schema for this kind's Config.
	Schema() map[string]any
}

package cyclic

import (
	"context"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/protocol"
)

// Factory creates cyclic node instances.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// Create creates a cyclic node from the given metamodel.
func (f *Factory) Create(_ context.Context, meta *models.NodeMetamodel) (protocol.NodeInstance, error) {
	return NewNode(meta)
}

// Kind returns the node kind tag this factory serves.
func (f *Factory) Kind() models.NodeKind {
	return models.NodeKindCyclic
}

// Name returns the human-readable name for this node kind.
func (f *Factory) Name() string {
	return "Bounded Iteration"
}

// Description returns a brief description of the node kind.
func (f *Factory) Description() string {
	return "Counts invocations in the execution context and emits 'done' at the iteration cap."
}

// Schema returns the JSON schema for configuring this node kind.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"max_iterations": map[string]any{
				"type":        "integer",
				"description": "Iteration cap after which 'done' becomes true.",
				"minimum":     1,
			},
			"counter_key": map[string]any{
				"type":        "string",
				"description": "Context key holding the iteration counter.",
				"default":     "iteration",
			},
		},
		"required":             []string{"max_iterations"},
		"additionalProperties": false,
	}
}

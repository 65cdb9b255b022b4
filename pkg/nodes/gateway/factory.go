package gateway

import (
	"context"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/protocol"
)

// Factory creates gateway node instances.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// Create creates a gateway node from the given metamodel.
func (f *Factory) Create(_ context.Context, meta *models.NodeMetamodel) (protocol.NodeInstance, error) {
	return NewNode(meta)
}

// Kind returns the node kind tag this factory serves.
func (f *Factory) Kind() models.NodeKind {
	return models.NodeKindGateway
}

// Name returns the human-readable name for this node kind.
func (f *Factory) Name() string {
	return "Gateway"
}

// Description returns a brief description of the node kind.
func (f *Factory) Description() string {
	return "Routes control flow by matching a context value against ordered rules."
}

// Schema returns the JSON schema for configuring this node kind.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input_key": map[string]any{
				"type":        "string",
				"description": "Context key the rules are evaluated against.",
				"default":     "value",
			},
			"routes": map[string]any{
				"type":        "array",
				"description": "Ordered routing rules; the first match wins.",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"equals": map[string]any{
							"type":        "string",
							"description": "Literal the input value must equal.",
						},
						"route": map[string]any{
							"type":        "string",
							"description": "Route key written to the 'route' output.",
						},
					},
					"required": []string{"equals", "route"},
				},
				"minItems": 1,
				"examples": []any{
					[]map[string]string{
						{"equals": "billing", "route": "billing_flow"},
						{"equals": "support", "route": "support_flow"},
					},
				},
			},
			"default_route": map[string]any{
				"type":        "string",
				"description": "Route key used when no rule matches. Without it an unmatched value fails the node.",
			},
		},
		"required":             []string{"routes"},
		"additionalProperties": false,
	}
}

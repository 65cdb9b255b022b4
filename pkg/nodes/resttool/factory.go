package resttool

import (
	"context"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/protocol"
)

// Factory creates REST tool node instances.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// Create creates a REST tool node from the given metamodel.
func (f *Factory) Create(_ context.Context, meta *models.NodeMetamodel) (protocol.NodeInstance, error) {
	return NewNode(meta)
}

// Kind returns the node kind tag this factory serves.
func (f *Factory) Kind() models.NodeKind {
	return models.NodeKindRestTool
}

// Name returns the human-readable name for this node kind.
func (f *Factory) Name() string {
	return "REST Tool"
}

// Description returns a brief description of the node kind.
func (f *Factory) Description() string {
	return "Performs an HTTP request with template-rendered url, headers and body."
}

// Schema returns the JSON schema for configuring this node kind.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Request URL. Supports templating against the execution context.",
				"examples": []string{
					"https://api.example.com/users",
					"https://api.example.com/users/{{.user_id}}",
				},
			},
			"method": map[string]any{
				"type":        "string",
				"description": "HTTP method.",
				"default":     "GET",
				"enum":        []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Request headers. Values support templating.",
				"additionalProperties": map[string]any{
					"type": "string",
				},
			},
			"body": map[string]any{
				"type":        "string",
				"format":      "code",
				"description": "Request body. Supports templating for dynamic JSON or text content.",
				"examples": []string{
					`{"query": "{{.question}}"}`,
				},
			},
			"timeout_seconds": map[string]any{
				"type":        "integer",
				"description": "Request timeout in seconds.",
				"default":     defaultTimeoutSeconds,
				"minimum":     1,
			},
			"retry": map[string]any{
				"type":        "object",
				"description": "Retry configuration for transport and 5xx failures.",
				"properties": map[string]any{
					"attempts": map[string]any{
						"type":    "integer",
						"minimum": 1,
						"maximum": 5,
					},
					"delay": map[string]any{
						"type":        "integer",
						"description": "Delay between attempts in milliseconds.",
						"minimum":     0,
					},
				},
			},
		},
		"required":             []string{"url"},
		"additionalProperties": false,
	}
}

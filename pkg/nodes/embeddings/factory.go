package embeddings

import (
	"context"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/protocol"
)

// Factory creates embeddings node instances.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// Create creates an embeddings node from the given metamodel.
func (f *Factory) Create(_ context.Context, meta *models.NodeMetamodel) (protocol.NodeInstance, error) {
	return NewNode(meta)
}

// Kind returns the node kind tag this factory serves.
func (f *Factory) Kind() models.NodeKind {
	return models.NodeKindEmbeddings
}

// Name returns the human-readable name for this node kind.
func (f *Factory) Name() string {
	return "Text Embeddings"
}

// Description returns a brief description of the node kind.
func (f *Factory) Description() string {
	return "Embeds a text value from the execution context into a float vector."
}

// Schema returns the JSON schema for configuring this node kind.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"model": map[string]any{
				"type":        "string",
				"description": "Embedding model identifier.",
				"default":     defaultModel,
			},
			"input_key": map[string]any{
				"type":        "string",
				"description": "Context key holding the text to embed.",
				"default":     "text",
			},
			"output_key": map[string]any{
				"type":        "string",
				"description": "Context key the vector is written to.",
				"default":     "embedding",
			},
			"api_key_env": map[string]any{
				"type":        "string",
				"description": "Environment variable holding the API key.",
				"default":     defaultAPIKeyEnv,
			},
			"base_url": map[string]any{
				"type":        "string",
				"description": "Optional API base URL for OpenAI-compatible providers.",
			},
		},
		"additionalProperties": false,
	}
}

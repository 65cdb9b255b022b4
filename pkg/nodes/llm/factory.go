package llm

import (
	"context"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/protocol"
)

// Factory creates LLM node instances.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

// Create creates an LLM node from the given metamodel.
func (f *Factory) Create(_ context.Context, meta *models.NodeMetamodel) (protocol.NodeInstance, error) {
	return NewNode(meta)
}

// Kind returns the node kind tag this factory serves.
func (f *Factory) Kind() models.NodeKind {
	return models.NodeKindLLM
}

// Name returns the human-readable name for this node kind.
func (f *Factory) Name() string {
	return "LLM Completion"
}

// Description returns a brief description of the node kind.
func (f *Factory) Description() string {
	return "Renders a prompt from the execution context and requests a chat completion."
}

// Schema returns the JSON schema for configuring this node kind.
func (f *Factory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"model": map[string]any{
				"type":        "string",
				"description": "Model identifier passed to the completion API.",
				"examples":    []string{"gpt-4o-mini", "gpt-4o"},
			},
			"prompt": map[string]any{
				"type":        "string",
				"description": "Prompt template rendered against the execution context. When empty the 'prompt' context value is used.",
				"examples": []string{
					"Summarize the following text: {{.document}}",
					"Answer the question: {{.question}}",
				},
			},
			"system_prompt": map[string]any{
				"type":        "string",
				"description": "Optional system message prepended to the conversation.",
			},
			"temperature": map[string]any{
				"type":        "number",
				"description": "Sampling temperature.",
				"minimum":     0,
				"maximum":     2,
			},
			"max_tokens": map[string]any{
				"type":        "integer",
				"description": "Maximum completion length in tokens. Zero means provider default.",
				"minimum":     0,
			},
			"output_key": map[string]any{
				"type":        "string",
				"description": "Context key the completion is written to.",
				"default":     "completion",
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
		"required":             []string{"model"},
		"additionalProperties": false,
	}
}

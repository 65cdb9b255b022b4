package embeddings

import (
	"context"
	"testing"

	"github.com/fluxion-ai/fluxion/pkg/models"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbeddingClient struct {
	lastRequest openai.EmbeddingRequestConverter
	response    openai.EmbeddingResponse
	err         error
}

func (c *fakeEmbeddingClient) CreateEmbeddings(_ context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	c.lastRequest = req

	return c.response, c.err
}

func metamodel(config map[string]any) *models.NodeMetamodel {
	return &models.NodeMetamodel{
		ID:      "embed-1",
		Name:    "Embedder",
		Kind:    models.NodeKindEmbeddings,
		Enabled: true,
		Config:  config,
	}
}

func TestNewNode_Defaults(t *testing.T) {
	node, err := NewNode(metamodel(nil))
	require.NoError(t, err)

	assert.Equal(t, defaultModel, node.model)
	assert.Equal(t, "text", node.inputKey)
	assert.Equal(t, "embedding", node.outputKey)
}

func TestProcess_WritesVector(t *testing.T) {
	node, err := NewNode(metamodel(nil))
	require.NoError(t, err)

	node.client = &fakeEmbeddingClient{response: openai.EmbeddingResponse{
		Data: []openai.Embedding{{Embedding: []float32{0.25, -0.5, 1}}},
	}}

	execCtx := models.NewExecutionContext("exec-1", "wf-1", map[string]any{"text": "hello"})

	require.NoError(t, node.Process(context.Background(), execCtx))

	vector, ok := execCtx.Get("embedding")
	require.True(t, ok)
	assert.Equal(t, []float64{0.25, -0.5, 1}, vector)
}

func TestProcess_MissingInputFails(t *testing.T) {
	node, err := NewNode(metamodel(nil))
	require.NoError(t, err)

	node.client = &fakeEmbeddingClient{}

	err = node.Process(context.Background(), models.NewExecutionContext("exec-1", "wf-1", nil))
	assert.ErrorIs(t, err, ErrInputMissing)
}

func TestProcess_EmptyResponseFails(t *testing.T) {
	node, err := NewNode(metamodel(nil))
	require.NoError(t, err)

	node.client = &fakeEmbeddingClient{}

	execCtx := models.NewExecutionContext("exec-1", "wf-1", map[string]any{"text": "hello"})

	err = node.Process(context.Background(), execCtx)
	assert.ErrorIs(t, err, ErrNoEmbedding)
}

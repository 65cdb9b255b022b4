// Package embeddings provides the embedding node: it embeds a text value
// from the execution context and writes the vector back to it.
package embeddings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fluxion-ai/fluxion/pkg/log"
	"github.com/fluxion-ai/fluxion/pkg/models"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultModel     = "text-embedding-3-small"
	defaultAPIKeyEnv = "OPENAI_API_KEY"
)

var (
	// ErrInputMissing is returned when the input key has no context value.
	ErrInputMissing = errors.New("no text value at the configured input key")
	// ErrAPIKeyMissing is returned when the API key environment variable is unset.
	ErrAPIKeyMissing = errors.New("API key environment variable is not set")
	// ErrNoEmbedding is returned when the API responds without embedding data.
	ErrNoEmbedding = errors.New("embedding response contained no data")
)

type embeddingClient interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Node performs one embedding call per Process invocation.
type Node struct {
	id        string
	model     string
	inputKey  string
	outputKey string
	apiKeyEnv string
	baseURL   string
	logger    *slog.Logger

	clientOnce sync.Once
	client     embeddingClient
	clientErr  error
}

// NewNode creates an embeddings node from a metamodel's configuration.
func NewNode(meta *models.NodeMetamodel) (*Node, error) {
	config := meta.Config

	model, _ := config["model"].(string)
	if model == "" {
		model = defaultModel
	}

	inputKey, _ := config["input_key"].(string)
	if inputKey == "" {
		inputKey = "text"
	}

	outputKey, _ := config["output_key"].(string)
	if outputKey == "" {
		outputKey = "embedding"
	}

	apiKeyEnv, _ := config["api_key_env"].(string)
	if apiKeyEnv == "" {
		apiKeyEnv = defaultAPIKeyEnv
	}

	baseURL, _ := config["base_url"].(string)

	return &Node{
		id:        meta.ID,
		model:     model,
		inputKey:  inputKey,
		outputKey: outputKey,
		apiKeyEnv: apiKeyEnv,
		baseURL:   baseURL,
		logger:    log.WithModule("node_embeddings"),
	}, nil
}

func (n *Node) ID() string            { return n.id }
func (n *Node) Kind() models.NodeKind { return models.NodeKindEmbeddings }

// Process embeds the text at the input key and writes the vector as a
// []float64 to the output key.
func (n *Node) Process(ctx context.Context, execCtx *models.ExecutionContext) error {
	client, err := n.resolveClient()
	if err != nil {
		return err
	}

	value, ok := execCtx.Get(n.inputKey)
	if !ok {
		return fmt.Errorf("%w: %s", ErrInputMissing, n.inputKey)
	}

	text := fmt.Sprintf("%v", value)

	n.logger.DebugContext(ctx, "Requesting embedding", "model", n.model, "text_length", len(text))

	resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(n.model),
		Input: []string{text},
	})
	if err != nil {
		return fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Data) == 0 {
		return ErrNoEmbedding
	}

	vector := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float64(v)
	}

	execCtx.Put(n.outputKey, vector)

	return nil
}

func (n *Node) resolveClient() (embeddingClient, error) {
	n.clientOnce.Do(func() {
		if n.client != nil {
			return
		}

		apiKey := os.Getenv(n.apiKeyEnv)
		if apiKey == "" {
			n.clientErr = fmt.Errorf("%w: %s", ErrAPIKeyMissing, n.apiKeyEnv)

			return
		}

		config := openai.DefaultConfig(apiKey)
		if n.baseURL != "" {
			config.BaseURL = n.baseURL
		}

		n.client = openai.NewClientWithConfig(config)
	})

	return n.client, n.clientErr
}

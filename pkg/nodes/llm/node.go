// Package llm provides the chat-completion node: it renders a prompt from
// the execution context and writes the model's completion back to it.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fluxion-ai/fluxion/pkg/log"
	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/template"
	openai "github.com/sashabaranov/go-openai"
)

const defaultAPIKeyEnv = "OPENAI_API_KEY"

var (
	// ErrModelMissing is returned when the configuration has no model.
	ErrModelMissing = errors.New("missing or invalid 'model' in configuration")
	// ErrPromptMissing is returned when neither the configuration nor the
	// execution context provides a prompt.
	ErrPromptMissing = errors.New("no prompt configured and no 'prompt' value in context")
	// ErrAPIKeyMissing is returned when the API key environment variable is unset.
	ErrAPIKeyMissing = errors.New("API key environment variable is not set")
	// ErrNoCompletionChoice is returned when the API responds without choices.
	ErrNoCompletionChoice = errors.New("completion response contained no choices")
)

// chatClient is the slice of the OpenAI client the node uses.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Node performs one chat-completion call per Process invocation. The API
// client is initialized lazily and then read-only, so a shared instance is
// safe across concurrent runs.
type Node struct {
	id           string
	model        string
	prompt       string
	systemPrompt string
	temperature  float32
	maxTokens    int
	outputKey    string
	apiKeyEnv    string
	baseURL      string
	logger       *slog.Logger

	clientOnce sync.Once
	client     chatClient
	clientErr  error
}

// NewNode creates an LLM node from a metamodel's configuration.
func NewNode(meta *models.NodeMetamodel) (*Node, error) {
	config := meta.Config

	model, ok := config["model"].(string)
	if !ok || model == "" {
		return nil, ErrModelMissing
	}

	prompt, _ := config["prompt"].(string)
	systemPrompt, _ := config["system_prompt"].(string)
	baseURL, _ := config["base_url"].(string)

	outputKey, _ := config["output_key"].(string)
	if outputKey == "" {
		outputKey = "completion"
	}

	apiKeyEnv, _ := config["api_key_env"].(string)
	if apiKeyEnv == "" {
		apiKeyEnv = defaultAPIKeyEnv
	}

	var temperature float32
	if t, ok := config["temperature"].(float64); ok {
		temperature = float32(t)
	}

	var maxTokens int
	if m, ok := config["max_tokens"].(float64); ok {
		maxTokens = int(m)
	}

	return &Node{
		id:           meta.ID,
		model:        model,
		prompt:       prompt,
		systemPrompt: systemPrompt,
		temperature:  temperature,
		maxTokens:    maxTokens,
		outputKey:    outputKey,
		apiKeyEnv:    apiKeyEnv,
		baseURL:      baseURL,
		logger:       log.WithModule("node_llm"),
	}, nil
}

func (n *Node) ID() string            { return n.id }
func (n *Node) Kind() models.NodeKind { return models.NodeKindLLM }

// Process renders the prompt against the execution context, performs the
// chat-completion call and writes the first choice to the output key.
func (n *Node) Process(ctx context.Context, execCtx *models.ExecutionContext) error {
	client, err := n.resolveClient()
	if err != nil {
		return err
	}

	prompt := n.prompt
	if prompt == "" {
		value, ok := execCtx.Get("prompt")
		if !ok {
			return ErrPromptMissing
		}

		prompt = fmt.Sprintf("%v", value)
	}

	rendered, err := template.RenderWithContext(prompt, execCtx)
	if err != nil {
		return fmt.Errorf("failed to render prompt template: %w", err)
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if n.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: n.systemPrompt,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: rendered,
	})

	n.logger.DebugContext(ctx, "Requesting chat completion", "model", n.model, "prompt_length", len(rendered))

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       n.model,
		Messages:    messages,
		Temperature: n.temperature,
		MaxTokens:   n.maxTokens,
	})
	if err != nil {
		return fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return ErrNoCompletionChoice
	}

	execCtx.Put(n.outputKey, resp.Choices[0].Message.Content)
	execCtx.Put("usage.prompt_tokens", int64(resp.Usage.PromptTokens))
	execCtx.Put("usage.completion_tokens", int64(resp.Usage.CompletionTokens))

	return nil
}

func (n *Node) resolveClient() (chatClient, error) {
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

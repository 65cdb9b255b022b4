// Package resttool provides the REST tool node: it performs an HTTP
// request with template-rendered url, headers and body, and writes the
// status and decoded response to the execution context.
package resttool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fluxion-ai/fluxion/pkg/log"
	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/template"
)

const defaultTimeoutSeconds = 30

var (
	// ErrURLMissing is returned when the configuration has no url.
	ErrURLMissing = errors.New("missing or invalid 'url' in configuration")
	// ErrServerError is returned when the server keeps answering 5xx across retries.
	ErrServerError = errors.New("server error during HTTP request")
)

// RetryConfig defines retry behavior for failed requests.
type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

// Node performs one HTTP request per Process invocation.
type Node struct {
	id      string
	method  string
	url     string
	headers map[string]string
	body    string
	retry   RetryConfig
	client  *http.Client
	logger  *slog.Logger
}

// NewNode creates a REST tool node from a metamodel's configuration.
func NewNode(meta *models.NodeMetamodel) (*Node, error) {
	config := meta.Config

	url, ok := config["url"].(string)
	if !ok || url == "" {
		return nil, ErrURLMissing
	}

	method, _ := config["method"].(string)
	if method == "" {
		method = http.MethodGet
	}

	body, _ := config["body"].(string)

	headers := make(map[string]string)

	if headersConfig, ok := config["headers"].(map[string]any); ok {
		for k, v := range headersConfig {
			if value, ok := v.(string); ok {
				headers[k] = value
			}
		}
	}

	timeout := defaultTimeoutSeconds * time.Second
	if seconds, ok := config["timeout_seconds"].(float64); ok && seconds > 0 {
		timeout = time.Duration(seconds) * time.Second
	}

	for _, text := range []string{url, body} {
		if _, err := template.Parse(text); err != nil {
			return nil, fmt.Errorf("invalid template in configuration: %w", err)
		}
	}

	return &Node{
		id:      meta.ID,
		method:  strings.ToUpper(method),
		url:     url,
		headers: headers,
		body:    body,
		retry:   parseRetryConfig(config["retry"]),
		client:  &http.Client{Timeout: timeout},
		logger:  log.WithModule("node_resttool"),
	}, nil
}

func parseRetryConfig(retryConfig any) RetryConfig {
	retry := RetryConfig{Attempts: 1}

	retryMap, ok := retryConfig.(map[string]any)
	if !ok {
		return retry
	}

	if attempts, ok := retryMap["attempts"].(float64); ok && attempts >= 1 {
		retry.Attempts = int(attempts)
	}

	if delay, ok := retryMap["delay"].(float64); ok && delay >= 0 {
		retry.Delay = time.Duration(delay) * time.Millisecond
	}

	return retry
}

func (n *Node) ID() string            { return n.id }
func (n *Node) Kind() models.NodeKind { return models.NodeKindRestTool }

// Process performs the request with retry on 5xx and transport errors,
// then writes "status" and the decoded body to "response".
func (n *Node) Process(ctx context.Context, execCtx *models.ExecutionContext) error {
	var (
		lastErr error
		resp    *http.Response
	)

	for attempt := 1; attempt <= n.retry.Attempts; attempt++ {
		if attempt > 1 {
			n.logger.InfoContext(ctx, "Retrying HTTP request", "attempt", attempt, "max_attempts", n.retry.Attempts)
			time.Sleep(n.retry.Delay)
		}

		req, err := n.buildRequest(ctx, execCtx)
		if err != nil {
			return err
		}

		resp, err = n.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request failed: %w", err)
			resp = nil

			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError && attempt < n.retry.Attempts {
			if err := resp.Body.Close(); err != nil {
				n.logger.ErrorContext(ctx, "Failed to close response body", "error", err)
			}

			lastErr = fmt.Errorf("status %d, retrying: %w", resp.StatusCode, ErrServerError)
			resp = nil

			continue
		}

		break
	}

	if resp == nil {
		return fmt.Errorf("all retry attempts failed, last error: %w", lastErr)
	}

	return n.processResponse(ctx, resp, execCtx)
}

func (n *Node) buildRequest(ctx context.Context, execCtx *models.ExecutionContext) (*http.Request, error) {
	url, err := template.RenderWithContext(n.url, execCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to render url template: %w", err)
	}

	body, err := template.RenderWithContext(n.body, execCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to render body template: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, n.method, url, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}

	for key, value := range n.headers {
		rendered, err := template.RenderWithContext(value, execCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to render header %q template: %w", key, err)
		}

		req.Header.Set(key, rendered)
	}

	return req, nil
}

func (n *Node) processResponse(ctx context.Context, resp *http.Response, execCtx *models.ExecutionContext) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var body any
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		body = string(bodyBytes)

		n.logger.DebugContext(ctx, "Response is not JSON, keeping raw string")
	}

	execCtx.Put("status", int64(resp.StatusCode))
	execCtx.Put("response", body)

	n.logger.InfoContext(ctx, "HTTP request completed", "status", resp.StatusCode, "body_length", len(bodyBytes))

	return nil
}

// Package vectordb provides the vector store node: it upserts embeddings
// into Redis hashes and searches them with client-side cosine ranking.
package vectordb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fluxion-ai/fluxion/pkg/log"
	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/redis/go-redis/v9"
)

const (
	operationUpsert = "upsert"
	operationSearch = "search"

	defaultKeyPrefix = "fluxion:vectors"
	defaultTopK      = 5
)

var (
	// ErrOperationInvalid is returned when the configured operation is unknown.
	ErrOperationInvalid = errors.New("operation must be 'upsert' or 'search'")
	// ErrIDMissing is returned on upsert when the context has no document id.
	ErrIDMissing = errors.New("no document id at the configured id key")
	// ErrVectorMissing is returned when the context has no vector value.
	ErrVectorMissing = errors.New("no vector value at the configured vector key")
	// ErrVectorInvalid is returned when the context vector is not a float array.
	ErrVectorInvalid = errors.New("vector value is not a float array")
)

// Node performs one vector store operation per Process invocation. The
// Redis client is initialized lazily and shared across runs.
type Node struct {
	id        string
	operation string
	address   string
	keyPrefix string
	topK      int
	logger    *slog.Logger

	clientOnce sync.Once
	client     redis.Cmdable
	clientErr  error
}

// NewNode creates a vector store node from a metamodel's configuration.
func NewNode(meta *models.NodeMetamodel) (*Node, error) {
	config := meta.Config

	operation, _ := config["operation"].(string)
	if operation != operationUpsert && operation != operationSearch {
		return nil, fmt.Errorf("%w, got %q", ErrOperationInvalid, operation)
	}

	address, _ := config["address"].(string)
	if address == "" {
		address = os.Getenv("REDIS_URL")
	}

	keyPrefix, _ := config["key_prefix"].(string)
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}

	topK := defaultTopK
	if k, ok := config["top_k"].(float64); ok && k > 0 {
		topK = int(k)
	}

	return &Node{
		id:        meta.ID,
		operation: operation,
		address:   address,
		keyPrefix: keyPrefix,
		topK:      topK,
		logger:    log.WithModule("node_vectordb"),
	}, nil
}

func (n *Node) ID() string            { return n.id }
func (n *Node) Kind() models.NodeKind { return models.NodeKindVectorDB }

// Process dispatches to the configured operation. Upsert reads "id",
// "vector" and optional "payload" from the context and writes "stored".
// Search reads "vector" and writes the ranked "matches".
func (n *Node) Process(ctx context.Context, execCtx *models.ExecutionContext) error {
	client, err := n.resolveClient()
	if err != nil {
		return err
	}

	switch n.operation {
	case operationUpsert:
		return n.upsert(ctx, client, execCtx)
	case operationSearch:
		return n.search(ctx, client, execCtx)
	default:
		return fmt.Errorf("%w, got %q", ErrOperationInvalid, n.operation)
	}
}

func (n *Node) upsert(ctx context.Context, client redis.Cmdable, execCtx *models.ExecutionContext) error {
	idValue, ok := execCtx.Get("id")
	if !ok {
		return ErrIDMissing
	}

	docID := fmt.Sprintf("%v", idValue)

	vector, err := contextVector(execCtx, "vector")
	if err != nil {
		return err
	}

	vectorJSON, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to encode vector: %w", err)
	}

	fields := map[string]any{"vector": string(vectorJSON)}

	if payload, ok := execCtx.Get("payload"); ok {
		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}

		fields["payload"] = string(payloadJSON)
	}

	key := n.keyPrefix + ":" + docID
	if err := client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("failed to store vector %s: %w", key, err)
	}

	n.logger.DebugContext(ctx, "Stored vector", "key", key, "dimensions", len(vector))
	execCtx.Put("stored", docID)

	return nil
}

// Match is one search result ranked by cosine similarity.
type Match struct {
	ID      string  `json:"id"`
	Score   float64 `json:"score"`
	Payload any     `json:"payload,omitempty"`
}

func (n *Node) search(ctx context.Context, client redis.Cmdable, execCtx *models.ExecutionContext) error {
	query, err := contextVector(execCtx, "vector")
	if err != nil {
		return err
	}

	var (
		matches []Match
		cursor  uint64
	)

	for {
		keys, next, err := client.Scan(ctx, cursor, n.keyPrefix+":*", 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan vector keys: %w", err)
		}

		for _, key := range keys {
			match, ok, err := n.scoreKey(ctx, client, key, query)
			if err != nil {
				return err
			}

			if ok {
				matches = append(matches, match)
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	if len(matches) > n.topK {
		matches = matches[:n.topK]
	}

	n.logger.DebugContext(ctx, "Vector search completed", "matches", len(matches))
	execCtx.Put("matches", matches)

	return nil
}

func (n *Node) scoreKey(ctx context.Context, client redis.Cmdable, key string, query []float64) (Match, bool, error) {
	fields, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return Match{}, false, fmt.Errorf("failed to read vector %s: %w", key, err)
	}

	var stored []float64
	if err := json.Unmarshal([]byte(fields["vector"]), &stored); err != nil {
		n.logger.WarnContext(ctx, "Skipping key with undecodable vector", "key", key)

		return Match{}, false, nil
	}

	score, ok := cosineSimilarity(query, stored)
	if !ok {
		return Match{}, false, nil
	}

	match := Match{
		ID:    strings.TrimPrefix(key, n.keyPrefix+":"),
		Score: score,
	}

	if payloadJSON, exists := fields["payload"]; exists {
		var payload any
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err == nil {
			match.Payload = payload
		}
	}

	return match, true, nil
}

// cosineSimilarity reports the cosine of the angle between two vectors.
// Mismatched dimensions or a zero-norm vector yield no score.
func cosineSimilarity(a, b []float64) (float64, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, normA, normB float64

	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}

// contextVector reads a float vector from the context, accepting both
// []float64 and the []any form JSON decoding produces.
func contextVector(execCtx *models.ExecutionContext, key string) ([]float64, error) {
	value, ok := execCtx.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVectorMissing, key)
	}

	switch v := value.(type) {
	case []float64:
		return v, nil
	case []any:
		vector := make([]float64, len(v))

		for i, item := range v {
			f, ok := item.(float64)
			if !ok {
				return nil, ErrVectorInvalid
			}

			vector[i] = f
		}

		return vector, nil
	default:
		return nil, ErrVectorInvalid
	}
}

func (n *Node) resolveClient() (redis.Cmdable, error) {
	n.clientOnce.Do(func() {
		if n.client != nil {
			return
		}

		if strings.HasPrefix(n.address, "redis://") || strings.HasPrefix(n.address, "rediss://") {
			opts, err := redis.ParseURL(n.address)
			if err != nil {
				n.clientErr = fmt.Errorf("invalid redis url: %w", err)

				return
			}

			n.client = redis.NewClient(opts)

			return
		}

		address := n.address
		if address == "" {
			address = "localhost:6379"
		}

		n.client = redis.NewClient(&redis.Options{Addr: address})
	})

	return n.client, n.clientErr
}

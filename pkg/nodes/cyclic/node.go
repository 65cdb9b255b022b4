// Package cyclic provides the bounded-iteration marker node: it counts
// its own invocations in the execution context and emits "done" once the
// configured iteration cap is reached.
package cyclic

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fluxion-ai/fluxion/pkg/log"
	"github.com/fluxion-ai/fluxion/pkg/models"
)

// ErrMaxIterationsInvalid is returned when max_iterations is absent or not positive.
var ErrMaxIterationsInvalid = errors.New("'max_iterations' must be a positive integer")

// Node increments an iteration counter per Process invocation.
type Node struct {
	id            string
	counterKey    string
	maxIterations int64
	logger        *slog.Logger
}

// NewNode creates a cyclic node from a metamodel's configuration.
func NewNode(meta *models.NodeMetamodel) (*Node, error) {
	config := meta.Config

	max, ok := config["max_iterations"].(float64)
	if !ok || max < 1 {
		return nil, ErrMaxIterationsInvalid
	}

	counterKey, _ := config["counter_key"].(string)
	if counterKey == "" {
		counterKey = "iteration"
	}

	return &Node{
		id:            meta.ID,
		counterKey:    counterKey,
		maxIterations: int64(max),
		logger:        log.WithModule("node_cyclic"),
	}, nil
}

func (n *Node) ID() string            { return n.id }
func (n *Node) Kind() models.NodeKind { return models.NodeKindCyclic }

// Process increments the counter at the counter key and writes "done"
// reporting whether the iteration cap has been reached. The counter
// persists in the context, so re-entrant graph layouts see it grow across
// passes.
func (n *Node) Process(ctx context.Context, execCtx *models.ExecutionContext) error {
	iteration := int64(0)

	if value, ok := execCtx.Get(n.counterKey); ok {
		switch v := value.(type) {
		case int64:
			iteration = v
		case int:
			iteration = int64(v)
		case float64:
			iteration = int64(v)
		}
	}

	iteration++

	done := iteration >= n.maxIterations

	n.logger.DebugContext(ctx, "Iteration advanced",
		"counter_key", n.counterKey, "iteration", iteration, "max_iterations", n.maxIterations, "done", done)

	execCtx.Put(n.counterKey, iteration)
	execCtx.Put("done", done)

	return nil
}

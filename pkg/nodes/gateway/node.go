// Package gateway provides the routing node: it evaluates ordered routing
// rules against a context value and writes the selected route key, for
// edge conditions to branch on.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fluxion-ai/fluxion/pkg/log"
	"github.com/fluxion-ai/fluxion/pkg/models"
)

var (
	// ErrRoutesMissing is returned when the configuration has no routes.
	ErrRoutesMissing = errors.New("missing or empty 'routes' in configuration")
	// ErrRouteInvalid is returned when a route entry lacks 'equals' or 'route'.
	ErrRouteInvalid = errors.New("route entries need 'equals' and 'route' strings")
	// ErrNoRouteMatched is returned when no rule matches and no default route exists.
	ErrNoRouteMatched = errors.New("no routing rule matched and no default route configured")
)

// Route is one ordered routing rule: when the input value equals the
// literal, the route key is selected.
type Route struct {
	Equals string
	Key    string
}

// Node selects a route key per Process invocation.
type Node struct {
	id           string
	inputKey     string
	routes       []Route
	defaultRoute string
	logger       *slog.Logger
}

// NewNode creates a gateway node from a metamodel's configuration.
func NewNode(meta *models.NodeMetamodel) (*Node, error) {
	config := meta.Config

	inputKey, _ := config["input_key"].(string)
	if inputKey == "" {
		inputKey = "value"
	}

	rawRoutes, _ := config["routes"].([]any)
	if len(rawRoutes) == 0 {
		return nil, ErrRoutesMissing
	}

	routes := make([]Route, 0, len(rawRoutes))

	for _, raw := range rawRoutes {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, ErrRouteInvalid
		}

		equals, equalsOK := entry["equals"].(string)
		key, keyOK := entry["route"].(string)

		if !equalsOK || !keyOK || key == "" {
			return nil, ErrRouteInvalid
		}

		routes = append(routes, Route{Equals: equals, Key: key})
	}

	defaultRoute, _ := config["default_route"].(string)

	return &Node{
		id:           meta.ID,
		inputKey:     inputKey,
		routes:       routes,
		defaultRoute: defaultRoute,
		logger:       log.WithModule("node_gateway"),
	}, nil
}

func (n *Node) ID() string            { return n.id }
func (n *Node) Kind() models.NodeKind { return models.NodeKindGateway }

// Process compares the input value against the rules in declaration order
// and writes the first matching route key to the "route" output. A missing
// input value or unmatched value falls back to the default route.
func (n *Node) Process(ctx context.Context, execCtx *models.ExecutionContext) error {
	value, _ := execCtx.Get(n.inputKey)
	actual := fmt.Sprintf("%v", value)

	for _, route := range n.routes {
		if actual == route.Equals {
			n.logger.DebugContext(ctx, "Route selected", "input", actual, "route", route.Key)
			execCtx.Put("route", route.Key)

			return nil
		}
	}

	if n.defaultRoute == "" {
		return fmt.Errorf("%w: input %q", ErrNoRouteMatched, actual)
	}

	n.logger.DebugContext(ctx, "No rule matched, using default route", "input", actual, "route", n.defaultRoute)
	execCtx.Put("route", n.defaultRoute)

	return nil
}

package gateway

import (
	"context"
	"testing"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metamodel(config map[string]any) *models.NodeMetamodel {
	return &models.NodeMetamodel{
		ID:      "gw-1",
		Name:    "Router",
		Kind:    models.NodeKindGateway,
		Enabled: true,
		Config:  config,
	}
}

func routedNode(t *testing.T, extra map[string]any) *Node {
	t.Helper()

	config := map[string]any{
		"input_key": "category",
		"routes": []any{
			map[string]any{"equals": "billing", "route": "billing_flow"},
			map[string]any{"equals": "support", "route": "support_flow"},
		},
	}
	for k, v := range extra {
		config[k] = v
	}

	node, err := NewNode(metamodel(config))
	require.NoError(t, err)

	return node
}

func TestNewNode_RequiresRoutes(t *testing.T) {
	_, err := NewNode(metamodel(map[string]any{}))
	assert.ErrorIs(t, err, ErrRoutesMissing)
}

func TestNewNode_RejectsMalformedRoute(t *testing.T) {
	_, err := NewNode(metamodel(map[string]any{
		"routes": []any{map[string]any{"equals": "billing"}},
	}))
	assert.ErrorIs(t, err, ErrRouteInvalid)
}

func TestProcess_FirstMatchWins(t *testing.T) {
	node := routedNode(t, nil)
	execCtx := models.NewExecutionContext("exec-1", "wf-1", map[string]any{"category": "support"})

	require.NoError(t, node.Process(context.Background(), execCtx))

	route, _ := execCtx.Get("route")
	assert.Equal(t, "support_flow", route)
}

func TestProcess_UnmatchedUsesDefaultRoute(t *testing.T) {
	node := routedNode(t, map[string]any{"default_route": "fallback"})
	execCtx := models.NewExecutionContext("exec-1", "wf-1", map[string]any{"category": "unknown"})

	require.NoError(t, node.Process(context.Background(), execCtx))

	route, _ := execCtx.Get("route")
	assert.Equal(t, "fallback", route)
}

func TestProcess_UnmatchedWithoutDefaultFails(t *testing.T) {
	node := routedNode(t, nil)
	execCtx := models.NewExecutionContext("exec-1", "wf-1", map[string]any{"category": "unknown"})

	err := node.Process(context.Background(), execCtx)
	assert.ErrorIs(t, err, ErrNoRouteMatched)
}

func TestProcess_NonStringInputIsStringified(t *testing.T) {
	node, err := NewNode(metamodel(map[string]any{
		"input_key": "code",
		"routes": []any{
			map[string]any{"equals": "404", "route": "not_found"},
		},
	}))
	require.NoError(t, err)

	execCtx := models.NewExecutionContext("exec-1", "wf-1", map[string]any{"code": int64(404)})

	require.NoError(t, node.Process(context.Background(), execCtx))

	route, _ := execCtx.Get("route")
	assert.Equal(t, "not_found", route)
}

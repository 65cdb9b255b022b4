package intent

import (
	"log/slog"
	"os"
	"testing"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatcher() *Matcher {
	return NewMatcher(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func handlerOf(id string, enabled bool, intents ...models.HandledIntent) *models.WorkflowMetamodel {
	return &models.WorkflowMetamodel{
		ID:             id,
		Name:           id,
		Enabled:        enabled,
		HandledIntents: intents,
	}
}

func TestMatch_PicksHighestScore(t *testing.T) {
	workflows := []*models.WorkflowMetamodel{
		handlerOf("wf-low", true, models.HandledIntent{IntentID: "refund", Score: 0.4}),
		handlerOf("wf-high", true, models.HandledIntent{IntentID: "refund", Score: 0.9}),
	}

	wf, ok := testMatcher().Match("refund", workflows)
	require.True(t, ok)
	assert.Equal(t, "wf-high", wf.ID)
}

func TestMatch_TieKeepsFirstDeclared(t *testing.T) {
	workflows := []*models.WorkflowMetamodel{
		handlerOf("wf-first", true, models.HandledIntent{IntentID: "refund", Score: 0.5}),
		handlerOf("wf-second", true, models.HandledIntent{IntentID: "refund", Score: 0.5}),
	}

	wf, ok := testMatcher().Match("refund", workflows)
	require.True(t, ok)
	assert.Equal(t, "wf-first", wf.ID)
}

func TestMatch_SkipsDisabledWorkflows(t *testing.T) {
	workflows := []*models.WorkflowMetamodel{
		handlerOf("wf-disabled", false, models.HandledIntent{IntentID: "refund", Score: 1}),
		handlerOf("wf-enabled", true, models.HandledIntent{IntentID: "refund", Score: 0.1}),
	}

	wf, ok := testMatcher().Match("refund", workflows)
	require.True(t, ok)
	assert.Equal(t, "wf-enabled", wf.ID)
}

func TestMatch_NoHandlerReturnsFalse(t *testing.T) {
	workflows := []*models.WorkflowMetamodel{
		handlerOf("wf-other", true, models.HandledIntent{IntentID: "greeting", Score: 1}),
	}

	wf, ok := testMatcher().Match("refund", workflows)
	assert.False(t, ok)
	assert.Nil(t, wf)
}

package template

import (
	"testing"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_PlainTextPassesThrough(t *testing.T) {
	out, err := Render("no placeholders here", nil)
	require.NoError(t, err)
	assert.Equal(t, "no placeholders here", out)
}

func TestRender_SubstitutesValues(t *testing.T) {
	out, err := Render("Hello {{.name}}, you asked: {{.question}}", map[string]any{
		"name":     "Ada",
		"question": "why?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada, you asked: why?", out)
}

func TestRender_NestedValues(t *testing.T) {
	out, err := Render("{{.user.name}}", map[string]any{
		"user": map[string]any{"name": "Ada"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", out)
}

func TestRender_InvalidTemplateFails(t *testing.T) {
	_, err := Render("{{.unclosed", nil)
	assert.Error(t, err)
}

func TestRenderWithContext_UsesContextValues(t *testing.T) {
	execCtx := models.NewExecutionContext("exec-1", "wf-1", map[string]any{"topic": "graphs"})

	out, err := RenderWithContext("Summarize {{.topic}}", execCtx)
	require.NoError(t, err)
	assert.Equal(t, "Summarize graphs", out)
}

func TestParse_AcceptsEnvAndNowFuncs(t *testing.T) {
	_, err := Parse(`{{env "HOME"}} at {{now}}`)
	assert.NoError(t, err)
}

package resttool

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metamodel(config map[string]any) *models.NodeMetamodel {
	return &models.NodeMetamodel{
		ID:      "rest-1",
		Name:    "Lookup",
		Kind:    models.NodeKindRestTool,
		Enabled: true,
		Config:  config,
	}
}

func TestNewNode_RequiresURL(t *testing.T) {
	_, err := NewNode(metamodel(map[string]any{}))
	assert.ErrorIs(t, err, ErrURLMissing)
}

func TestNewNode_RejectsBrokenTemplate(t *testing.T) {
	_, err := NewNode(metamodel(map[string]any{"url": "https://example.com/{{.broken"}))
	assert.Error(t, err)
}

func TestProcess_WritesStatusAndJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/42", r.URL.Path)
		assert.Equal(t, "token-abc", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name": "Ada"}`))
	}))
	defer server.Close()

	node, err := NewNode(metamodel(map[string]any{
		"url": server.URL + "/users/{{.user_id}}",
		"headers": map[string]any{
			"Authorization": "{{.token}}",
		},
	}))
	require.NoError(t, err)

	execCtx := models.NewExecutionContext("exec-1", "wf-1", map[string]any{
		"user_id": "42",
		"token":   "token-abc",
	})

	require.NoError(t, node.Process(context.Background(), execCtx))

	status, _ := execCtx.Get("status")
	assert.Equal(t, int64(http.StatusOK), status)

	response, _ := execCtx.Get("response")
	assert.Equal(t, map[string]any{"name": "Ada"}, response)
}

func TestProcess_RendersBodyTemplate(t *testing.T) {
	var received string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received = string(body)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))
	defer server.Close()

	node, err := NewNode(metamodel(map[string]any{
		"url":    server.URL,
		"method": "POST",
		"body":   `{"question": "{{.question}}"}`,
	}))
	require.NoError(t, err)

	execCtx := models.NewExecutionContext("exec-1", "wf-1", map[string]any{"question": "why"})

	require.NoError(t, node.Process(context.Background(), execCtx))

	assert.Equal(t, `{"question": "why"}`, received)

	status, _ := execCtx.Get("status")
	assert.Equal(t, int64(http.StatusCreated), status)

	response, _ := execCtx.Get("response")
	assert.Equal(t, "created", response)
}

func TestProcess_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		_, _ = w.Write([]byte(`"ok"`))
	}))
	defer server.Close()

	node, err := NewNode(metamodel(map[string]any{
		"url":   server.URL,
		"retry": map[string]any{"attempts": float64(3)},
	}))
	require.NoError(t, err)

	execCtx := models.NewExecutionContext("exec-1", "wf-1", nil)

	require.NoError(t, node.Process(context.Background(), execCtx))
	assert.Equal(t, int32(2), calls.Load())

	status, _ := execCtx.Get("status")
	assert.Equal(t, int64(http.StatusOK), status)
}

func TestProcess_ExhaustedRetriesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	server.Close()

	node, err := NewNode(metamodel(map[string]any{
		"url":   server.URL,
		"retry": map[string]any{"attempts": float64(2)},
	}))
	require.NoError(t, err)

	err = node.Process(context.Background(), models.NewExecutionContext("exec-1", "wf-1", nil))
	assert.ErrorContains(t, err, "all retry attempts failed")
}

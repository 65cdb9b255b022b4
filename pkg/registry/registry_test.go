package registry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInstance struct {
	id string
}

func (s *stubInstance) ID() string            { return s.id }
func (s *stubInstance) Kind() models.NodeKind { return "stub" }
func (s *stubInstance) Process(context.Context, *models.ExecutionContext) error {
	return nil
}

type stubFactory struct {
	schema  map[string]any
	created int
	err     error
}

func (f *stubFactory) Create(_ context.Context, meta *models.NodeMetamodel) (protocol.NodeInstance, error) {
	f.created++

	if f.err != nil {
		return nil, f.err
	}

	return &stubInstance{id: meta.ID}, nil
}

func (f *stubFactory) Kind() models.NodeKind { return "stub" }
func (f *stubFactory) Name() string          { return "Stub" }
func (f *stubFactory) Description() string   { return "test factory" }
func (f *stubFactory) Schema() map[string]any {
	return f.schema
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func stubMetamodel(config map[string]any) *models.NodeMetamodel {
	return &models.NodeMetamodel{
		ID:      "meta-1",
		Name:    "Meta",
		Kind:    "stub",
		Enabled: true,
		Config:  config,
	}
}

func TestNodeInstance_CachesPerMetamodelID(t *testing.T) {
	registry := NewRegistry(testLogger())
	factory := &stubFactory{}
	registry.RegisterNode(factory)

	meta := stubMetamodel(nil)

	first, err := registry.NodeInstance(context.Background(), meta)
	require.NoError(t, err)

	second, err := registry.NodeInstance(context.Background(), meta)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, factory.created)
}

func TestNodeInstance_DisabledMetamodelFails(t *testing.T) {
	registry := NewRegistry(testLogger())
	registry.RegisterNode(&stubFactory{})

	meta := stubMetamodel(nil)
	meta.Enabled = false

	_, err := registry.NodeInstance(context.Background(), meta)
	assert.ErrorContains(t, err, "disabled")
}

func TestNodeInstance_UnknownKindFails(t *testing.T) {
	registry := NewRegistry(testLogger())

	_, err := registry.NodeInstance(context.Background(), stubMetamodel(nil))
	assert.ErrorContains(t, err, "not registered")
}

func TestNodeInstance_ValidatesConfigAgainstSchema(t *testing.T) {
	registry := NewRegistry(testLogger())
	factory := &stubFactory{schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"model": map[string]any{"type": "string"},
		},
		"required": []string{"model"},
	}}
	registry.RegisterNode(factory)

	_, err := registry.NodeInstance(context.Background(), stubMetamodel(map[string]any{}))
	require.ErrorContains(t, err, "invalid config")
	assert.Zero(t, factory.created)

	_, err = registry.NodeInstance(context.Background(), stubMetamodel(map[string]any{"model": "gpt-4o-mini"}))
	assert.NoError(t, err)
}

func TestNodeInstance_FactoryErrorPropagates(t *testing.T) {
	registry := NewRegistry(testLogger())
	registry.RegisterNode(&stubFactory{err: errors.New("bad config")})

	_, err := registry.NodeInstance(context.Background(), stubMetamodel(nil))
	assert.ErrorContains(t, err, "bad config")
}

func TestRegisterDefaultNodes_CoversAllKinds(t *testing.T) {
	registry := NewRegistry(testLogger())
	registry.RegisterDefaultNodes()

	for _, kind := range []models.NodeKind{
		models.NodeKindLLM,
		models.NodeKindEmbeddings,
		models.NodeKindRestTool,
		models.NodeKindVectorDB,
		models.NodeKindGateway,
		models.NodeKindCyclic,
	} {
		_, ok := registry.Factory(kind)
		assert.True(t, ok, "kind %s", kind)
	}

	assert.Len(t, registry.Kinds(), 6)
}

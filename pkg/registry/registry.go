// Package registry manages node factories and the shared node-instance
// cache: one long-lived instance per node metamodel id, reused across
// runs. The registry is an explicit, externally-owned object passed into
// the executor by reference, so tests can substitute a fresh one.
package registry

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"plugin"
	"strings"
	"sync"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/protocol"
)

type Registry struct {
	logger    *slog.Logger
	factories map[models.NodeKind]protocol.NodeFactory

	mu        sync.Mutex
	instances map[string]protocol.NodeInstance
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[models.NodeKind]protocol.NodeFactory),
		instances: make(map[string]protocol.NodeInstance),
	}
}

// RegisterNode registers a factory for its node kind, replacing any
// previous registration.
func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.factories[factory.Kind()] = factory
}

// Factory returns the registered factory for a node kind.
func (r *Registry) Factory(kind models.NodeKind) (protocol.NodeFactory, bool) {
	factory, ok := r.factories[kind]

	return factory, ok
}

// Kinds lists the registered node kinds.
func (r *Registry) Kinds() []models.NodeKind {
	kinds := make([]models.NodeKind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}

	return kinds
}

// NodeInstance returns the cached instance for a metamodel, creating it
// on first use. A disabled metamodel never yields an instance. The
// metamodel's Config is validated against the factory's config schema
// before the factory runs.
func (r *Registry) NodeInstance(ctx context.Context, meta *models.NodeMetamodel) (protocol.NodeInstance, error) {
	if !meta.Enabled {
		return nil, fmt.Errorf("node metamodel %s is disabled", meta.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if instance, ok := r.instances[meta.ID]; ok {
		return instance, nil
	}

	factory, ok := r.factories[meta.Kind]
	if !ok {
		return nil, fmt.Errorf("node kind %q is not registered", meta.Kind)
	}

	if err := validateConfig(meta.Config, factory.Schema()); err != nil {
		return nil, fmt.Errorf("invalid config for metamodel %s: %w", meta.ID, err)
	}

	instance, err := factory.Create(ctx, meta)
	if err != nil {
		return nil, fmt.Errorf("failed to create instance for metamodel %s: %w", meta.ID, err)
	}

	r.instances[meta.ID] = instance

	return instance, nil
}

// LoadNodePlugins loads NodeFactory symbols from .so files under
// <pluginsPath>/nodes and registers them.
func (r *Registry) LoadNodePlugins(pluginsPath string) ([]protocol.NodeFactory, error) {
	factories, err := loadPlugin[protocol.NodeFactory](r.logger, pluginsPath, "Node")
	if err != nil {
		return nil, err
	}

	for _, factory := range factories {
		r.RegisterNode(factory)
	}

	return factories, nil
}

func loadPlugin[T any](logger *slog.Logger, pluginsPath string, symbolName string) ([]T, error) {
	rootPath := pluginsPath + "/" + strings.ToLower(symbolName) + "s"
	root := os.DirFS(rootPath)

	pluginPathList, err := fs.Glob(root, "**/*.so")
	if err != nil {
		return nil, err
	}

	l := logger.With(slog.String("path", pluginsPath), slog.String("type", symbolName))
	l.Info("Loading plugins")

	pluginList := make([]T, 0, len(pluginPathList))

	for _, p := range pluginPathList {
		plg, err := plugin.Open(rootPath + "/" + p)
		if err != nil {
			return nil, fmt.Errorf("failed to open plugin %s: %w", p, err)
		}

		v, err := plg.Lookup(symbolName)
		if err != nil {
			return nil, fmt.Errorf("plugin %s has no %s symbol: %w", p, symbolName, err)
		}

		castV, ok := v.(T)
		if !ok {
			return nil, fmt.Errorf("plugin %s: %s symbol has wrong type", p, symbolName)
		}

		pluginList = append(pluginList, castV)

		l.Info("Loaded node plugin", slog.String("plugin", p))
	}

	return pluginList, nil
}

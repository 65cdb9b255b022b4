// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/fluxion-ai/fluxion/pkg/registry"
)

// NewRegistry builds a node registry with the built-in node kinds plus
// any plugins found under pluginsPath.
func NewRegistry(logger *slog.Logger, pluginsPath string) (*registry.Registry, error) {
	reg := registry.NewRegistry(logger)

	if pluginsPath != "" {
		if _, err := reg.LoadNodePlugins(pluginsPath); err != nil {
			return nil, err
		}
	}

	reg.RegisterDefaultNodes()

	return reg, nil
}

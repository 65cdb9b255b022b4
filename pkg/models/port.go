// Package models defines the core domain models for graph-based AI
// workflow execution: ports, node metamodels, workflow metamodels and the
// per-run execution context.
package models

import (
	"github.com/fluxion-ai/fluxion/pkg/schema"
)

// PortRole tags what a port carries. Most ports move data; control ports
// exist for gateway routing, error ports for failure fan-out.
type PortRole string

const (
	PortRoleData    PortRole = "data"
	PortRoleControl PortRole = "control"
	PortRoleError   PortRole = "error"
)

// Port is a named, schema-typed data slot a node exposes. A port belongs
// to exactly one metamodel port list and its key is unique within that
// list; matching across nodes is always by key, never by position.
type Port struct {
	Key     string             `json:"key"    validate:"required"`
	Schema  *schema.PortSchema `json:"schema" validate:"required"`
	Default any                `json:"default,omitempty"`
	Role    PortRole           `json:"role,omitempty"`
}

// FindPort returns the port with the given key from a port list.
func FindPort(ports []*Port, key string) (*Port, bool) {
	for _, p := range ports {
		if p.Key == key {
			return p, true
		}
	}

	return nil, false
}

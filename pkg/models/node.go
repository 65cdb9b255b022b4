package models

// NodeKind is the closed set of node metamodel kinds. Dispatch on the kind
// tag happens through the factory registry, never through type switches on
// concrete instances.
type NodeKind string

const (
	NodeKindLLM        NodeKind = "llm"
	NodeKindEmbeddings NodeKind = "embeddings"
	NodeKindRestTool   NodeKind = "tool:rest"
	NodeKindVectorDB   NodeKind = "tool:vectordb"
	NodeKindGateway    NodeKind = "gateway"
	NodeKindCyclic     NodeKind = "cyclic"
)

// NodeMetamodel declares a node type's externally visible contract: its
// ordered input and output port lists. Config carries kind-specific
// settings validated against the factory's config schema at instantiation.
type NodeMetamodel struct {
	ID      string         `json:"id"      validate:"required"`
	Name    string         `json:"name"    validate:"required,min=1"`
	Version int            `json:"version"`
	Kind    NodeKind       `json:"kind"    validate:"required"`
	Enabled bool           `json:"enabled"`
	Inputs  []*Port        `json:"inputs"`
	Outputs []*Port        `json:"outputs"`
	Config  map[string]any `json:"config,omitempty"`
}

// InputPort returns the declared input port with the given key.
func (m *NodeMetamodel) InputPort(key string) (*Port, bool) {
	return FindPort(m.Inputs, key)
}

// OutputPort returns the declared output port with the given key.
func (m *NodeMetamodel) OutputPort(key string) (*Port, bool) {
	return FindPort(m.Outputs, key)
}

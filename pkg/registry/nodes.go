package registry

import (
	"github.com/fluxion-ai/fluxion/pkg/nodes/cyclic"
	"github.com/fluxion-ai/fluxion/pkg/nodes/embeddings"
	"github.com/fluxion-ai/fluxion/pkg/nodes/gateway"
	"github.com/fluxion-ai/fluxion/pkg/nodes/llm"
	"github.com/fluxion-ai/fluxion/pkg/nodes/resttool"
	"github.com/fluxion-ai/fluxion/pkg/nodes/vectordb"
)

// RegisterDefaultNodes registers the built-in node kinds.
func (r *Registry) RegisterDefaultNodes() {
	r.RegisterNode(llm.NewFactory())
	r.RegisterNode(embeddings.NewFactory())
	r.RegisterNode(resttool.NewFactory())
	r.RegisterNode(vectordb.NewFactory())
	r.RegisterNode(gateway.NewFactory())
	r.RegisterNode(cyclic.NewFactory())
}

package models

// WorkflowNode places a node metamodel in a workflow graph. Many workflow
// nodes may reference the same metamodel.
type WorkflowNode struct {
	ID              string `json:"id"                validate:"required"`
	NodeMetamodelID string `json:"node_metamodel_id" validate:"required"`
}

// EdgeCondition gates an edge on a source output port value. Value is the
// expected value in string form, parsed against the port's declared type.
type EdgeCondition struct {
	Port  string `json:"port"  validate:"required"`
	Value string `json:"value"`
}

// WorkflowEdge connects two workflow nodes. Bindings map dotted source
// port paths to dotted target port paths; the first segment of a path
// names a port by key, later segments index into object properties.
// Edges are immutable at run time.
type WorkflowEdge struct {
	ID           string            `json:"id"             validate:"required"`
	SourceNodeID string            `json:"source_node_id" validate:"required"`
	TargetNodeID string            `json:"target_node_id" validate:"required"`
	Bindings     map[string]string `json:"bindings,omitempty"`
	Condition    *EdgeCondition    `json:"condition,omitempty"`
}

// HandledIntent declares that a workflow can serve an intent, with a score
// used to rank competing workflows.
type HandledIntent struct {
	IntentID string  `json:"intent_id" validate:"required"`
	Score    float64 `json:"score"`
}

// WorkflowMetamodel is a DAG definition over node metamodel references.
// The validator, not the type, enforces that (Nodes, Edges) is acyclic,
// that every edge endpoint resolves and that node ids are unique.
type WorkflowMetamodel struct {
	ID             string          `json:"id"   validate:"required"`
	Name           string          `json:"name" validate:"required,min=1"`
	Nodes          []*WorkflowNode `json:"nodes"`
	Edges          []*WorkflowEdge `json:"edges"`
	HandledIntents []HandledIntent `json:"handled_intents,omitempty"`
	Enabled        bool            `json:"enabled"`
}

// NodeByID returns the workflow node with the given workflow-local id.
func (w *WorkflowMetamodel) NodeByID(id string) (*WorkflowNode, bool) {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n, true
		}
	}

	return nil, false
}

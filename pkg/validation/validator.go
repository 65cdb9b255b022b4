package validation

import (
	"context"
	"fmt"
	"strings"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/protocol"
)

// Validator checks a workflow metamodel once, offline, before any run.
// It is a pure function over its inputs: safe for concurrent and repeated
// invocation, and it never mutates the workflow.
type Validator struct {
	catalog protocol.Catalog
}

func NewValidator(catalog protocol.Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate runs every sub-check independently and accumulates all
// findings; no check short-circuits another.
func (v *Validator) Validate(ctx context.Context, wf *models.WorkflowMetamodel) Result {
	var result Result

	if wf == nil {
		result.addError("workflow", "workflow is nil")

		return result
	}

	v.checkStructure(wf, &result)
	metamodels := v.resolveReferences(ctx, wf, &result)
	v.checkAcyclicity(wf, &result)
	v.checkEntryExit(wf, &result)
	v.checkBindings(wf, metamodels, &result)
	v.checkConditions(wf, metamodels, &result)

	return result
}

func (v *Validator) checkStructure(wf *models.WorkflowMetamodel, result *Result) {
	if strings.TrimSpace(wf.ID) == "" {
		result.addError("workflow.id", "workflow id must not be empty")
	}

	if strings.TrimSpace(wf.Name) == "" {
		result.addError("workflow.name", "workflow name must not be empty")
	}

	if len(wf.Nodes) == 0 {
		result.addError("workflow.nodes", "workflow must declare at least one node")
	}

	seenNodes := make(map[string]bool, len(wf.Nodes))
	for _, node := range wf.Nodes {
		if seenNodes[node.ID] {
			result.addError("workflow.nodes."+node.ID, "duplicate node id %q", node.ID)
		}

		seenNodes[node.ID] = true
	}

	seenEdges := make(map[string]bool, len(wf.Edges))
	for _, edge := range wf.Edges {
		if seenEdges[edge.ID] {
			result.addError("workflow.edges."+edge.ID, "duplicate edge id %q", edge.ID)
		}

		seenEdges[edge.ID] = true
	}
}

// resolveReferences checks that every metamodel and edge endpoint
// reference resolves, and returns the resolved metamodels keyed by
// workflow node id for the binding and condition checks.
func (v *Validator) resolveReferences(ctx context.Context, wf *models.WorkflowMetamodel, result *Result) map[string]*models.NodeMetamodel {
	metamodels := make(map[string]*models.NodeMetamodel, len(wf.Nodes))

	for _, node := range wf.Nodes {
		meta, err := v.catalog.NodeMetamodelByID(ctx, node.NodeMetamodelID)
		if err != nil {
			result.addError("workflow.nodes."+node.ID+".metamodel",
				"failed to resolve node metamodel %q: %v", node.NodeMetamodelID, err)

			continue
		}

		if meta == nil {
			result.addError("workflow.nodes."+node.ID+".metamodel",
				"node metamodel %q not found", node.NodeMetamodelID)

			continue
		}

		metamodels[node.ID] = meta
	}

	for _, edge := range wf.Edges {
		if _, ok := wf.NodeByID(edge.SourceNodeID); !ok {
			result.addError("workflow.edges."+edge.ID+".source",
				"edge source %q is not a declared node", edge.SourceNodeID)
		}

		if _, ok := wf.NodeByID(edge.TargetNodeID); !ok {
			result.addError("workflow.edges."+edge.ID+".target",
				"edge target %q is not a declared node", edge.TargetNodeID)
		}

		if edge.SourceNodeID == edge.TargetNodeID {
			result.addError("workflow.edges."+edge.ID+".selfLoop",
				"edge connects node %q to itself", edge.SourceNodeID)
		}
	}

	return metamodels
}

func (v *Validator) checkAcyclicity(wf *models.WorkflowMetamodel, result *Result) {
	cycleNodes := CycleNodes(wf)
	if len(cycleNodes) > 0 {
		result.addError("workflow.graph.cycle",
			"workflow graph contains a cycle involving nodes: %s", strings.Join(cycleNodes, ", "))
	}
}

func (v *Validator) checkEntryExit(wf *models.WorkflowMetamodel, result *Result) {
	if len(wf.Nodes) == 0 {
		return
	}

	hasIncoming := make(map[string]bool)
	hasOutgoing := make(map[string]bool)

	for _, edge := range wf.Edges {
		hasOutgoing[edge.SourceNodeID] = true
		hasIncoming[edge.TargetNodeID] = true
	}

	entry, exit := false, false

	for _, node := range wf.Nodes {
		if !hasIncoming[node.ID] {
			entry = true
		}

		if !hasOutgoing[node.ID] {
			exit = true
		}
	}

	if !entry {
		result.addError("workflow.graph.entry", "workflow has no entry node (every node has incoming edges)")
	}

	if !exit {
		result.addError("workflow.graph.exit", "workflow has no exit node (every node has outgoing edges)")
	}
}

func edgePath(edge *models.WorkflowEdge, suffix string) string {
	return fmt.Sprintf("workflow.edges.%s.%s", edge.ID, suffix)
}

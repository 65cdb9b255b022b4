package validation

import (
	"context"
	"testing"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/protocol"
	"github.com/fluxion-ai/fluxion/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPort(key string, required bool) *models.Port {
	return &models.Port{Key: key, Schema: schema.MustPrimitive(schema.TypeString, required)}
}

func testCatalog() protocol.StaticCatalog {
	return protocol.StaticCatalog{
		"producer": &models.NodeMetamodel{
			ID:      "producer",
			Name:    "Producer",
			Kind:    models.NodeKindRestTool,
			Enabled: true,
			Outputs: []*models.Port{
				stringPort("O_A_1", true),
				{Key: "count", Schema: schema.MustPrimitive(schema.TypeInt, false)},
			},
		},
		"consumer": &models.NodeMetamodel{
			ID:      "consumer",
			Name:    "Consumer",
			Kind:    models.NodeKindLLM,
			Enabled: true,
			Inputs: []*models.Port{
				stringPort("O_A_1", true),
			},
			Outputs: []*models.Port{
				stringPort("completion", true),
			},
		},
	}
}

func linearWorkflow() *models.WorkflowMetamodel {
	return &models.WorkflowMetamodel{
		ID:      "wf-1",
		Name:    "linear",
		Enabled: true,
		Nodes: []*models.WorkflowNode{
			{ID: "A", NodeMetamodelID: "producer"},
			{ID: "B", NodeMetamodelID: "consumer"},
		},
		Edges: []*models.WorkflowEdge{
			{ID: "e1", SourceNodeID: "A", TargetNodeID: "B"},
		},
	}
}

func validate(t *testing.T, wf *models.WorkflowMetamodel) Result {
	t.Helper()

	return NewValidator(testCatalog()).Validate(context.Background(), wf)
}

func TestValidate_LinearWorkflowIsClean(t *testing.T) {
	// A -> B with matching top-level keys binds implicitly: no errors,
	// no warnings.
	result := validate(t, linearWorkflow())

	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.False(t, result.HasErrors())
}

func TestValidate_Structural(t *testing.T) {
	wf := &models.WorkflowMetamodel{}
	result := validate(t, wf)

	paths := componentPaths(result.Errors)
	assert.Contains(t, paths, "workflow.id")
	assert.Contains(t, paths, "workflow.name")
	assert.Contains(t, paths, "workflow.nodes")
}

func TestValidate_DuplicateIDs(t *testing.T) {
	wf := linearWorkflow()
	wf.Nodes = append(wf.Nodes, &models.WorkflowNode{ID: "A", NodeMetamodelID: "producer"})
	wf.Edges = append(wf.Edges, &models.WorkflowEdge{ID: "e1", SourceNodeID: "A", TargetNodeID: "B"})

	result := validate(t, wf)

	paths := componentPaths(result.Errors)
	assert.Contains(t, paths, "workflow.nodes.A")
	assert.Contains(t, paths, "workflow.edges.e1")
}

func TestValidate_UnresolvedReferences(t *testing.T) {
	wf := linearWorkflow()
	wf.Nodes[1].NodeMetamodelID = "missing"
	wf.Edges = append(wf.Edges, &models.WorkflowEdge{ID: "e2", SourceNodeID: "B", TargetNodeID: "ghost"})

	result := validate(t, wf)

	paths := componentPaths(result.Errors)
	assert.Contains(t, paths, "workflow.nodes.B.metamodel")
	assert.Contains(t, paths, "workflow.edges.e2.target")
}

func TestValidate_SelfLoop(t *testing.T) {
	wf := linearWorkflow()
	wf.Edges = append(wf.Edges, &models.WorkflowEdge{ID: "e2", SourceNodeID: "A", TargetNodeID: "A"})

	result := validate(t, wf)

	assert.Contains(t, componentPaths(result.Errors), "workflow.edges.e2.selfLoop")
}

func TestValidate_CycleNamesInvolvedNodes(t *testing.T) {
	wf := &models.WorkflowMetamodel{
		ID:      "wf-cycle",
		Name:    "cyclic",
		Enabled: true,
		Nodes: []*models.WorkflowNode{
			{ID: "A", NodeMetamodelID: "producer"},
			{ID: "B", NodeMetamodelID: "consumer"},
			{ID: "C", NodeMetamodelID: "consumer"},
		},
		Edges: []*models.WorkflowEdge{
			{ID: "e1", SourceNodeID: "A", TargetNodeID: "B"},
			{ID: "e2", SourceNodeID: "B", TargetNodeID: "C"},
			{ID: "e3", SourceNodeID: "C", TargetNodeID: "B"},
		},
	}

	result := validate(t, wf)
	require.True(t, result.HasErrors())

	cycleIssue := issueAt(t, result.Errors, "workflow.graph.cycle")
	assert.Contains(t, cycleIssue.Message, "B")
	assert.Contains(t, cycleIssue.Message, "C")
	assert.NotContains(t, cycleIssue.Message, "A")
}

func TestValidate_MissingEntryAndExit(t *testing.T) {
	// Every node has both in- and out-edges.
	wf := &models.WorkflowMetamodel{
		ID:      "wf-ring",
		Name:    "ring",
		Enabled: true,
		Nodes: []*models.WorkflowNode{
			{ID: "A", NodeMetamodelID: "producer"},
			{ID: "B", NodeMetamodelID: "consumer"},
		},
		Edges: []*models.WorkflowEdge{
			{ID: "e1", SourceNodeID: "A", TargetNodeID: "B"},
			{ID: "e2", SourceNodeID: "B", TargetNodeID: "A"},
		},
	}

	result := validate(t, wf)

	paths := componentPaths(result.Errors)
	assert.Contains(t, paths, "workflow.graph.entry")
	assert.Contains(t, paths, "workflow.graph.exit")
}

func TestValidate_ImplicitBindingKeyMismatchWarns(t *testing.T) {
	catalog := testCatalog()
	catalog["consumer"].Inputs = []*models.Port{stringPort("NO_MATCH", true)}

	result := NewValidator(catalog).Validate(context.Background(), linearWorkflow())

	assert.Empty(t, result.Errors)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, componentPaths(result.Warnings), "workflow.nodes.B.requiredInputs")
}

func TestValidate_ImplicitBindingTypeMismatchWarns(t *testing.T) {
	catalog := testCatalog()
	catalog["consumer"].Inputs = []*models.Port{
		{Key: "O_A_1", Schema: schema.MustPrimitive(schema.TypeBoolean, true)},
	}

	result := NewValidator(catalog).Validate(context.Background(), linearWorkflow())

	assert.Empty(t, result.Errors)
	assert.Contains(t, componentPaths(result.Warnings), "workflow.edges.e1.binding.implicitMismatch")
}

func TestValidate_ExplicitBindingTypeMismatch(t *testing.T) {
	wf := linearWorkflow()
	wf.Edges[0].Bindings = map[string]string{"count": "O_A_1"}

	result := validate(t, wf)

	assert.Contains(t, componentPaths(result.Errors), "workflow.edges.e1.binding.typeMismatch")
}

func TestValidate_ExplicitBindingToUnknownTargetPath(t *testing.T) {
	wf := linearWorkflow()
	wf.Edges[0].Bindings = map[string]string{"O_A_1": "no.such.path"}

	result := validate(t, wf)

	total := len(result.Errors) + len(result.Warnings)
	assert.Positive(t, total)
	assert.Contains(t, componentPaths(result.Errors), "workflow.edges.e1.binding.targetPath")
}

func TestValidate_NumericWideningBindingIsClean(t *testing.T) {
	catalog := testCatalog()
	catalog["consumer"].Inputs = []*models.Port{
		{Key: "amount", Schema: schema.MustPrimitive(schema.TypeFloat, false)},
	}

	wf := linearWorkflow()
	wf.Edges[0].Bindings = map[string]string{"count": "amount"}

	result := NewValidator(catalog).Validate(context.Background(), wf)

	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_RequiredInputSatisfiedAcrossEdges(t *testing.T) {
	catalog := testCatalog()
	catalog["consumer"].Inputs = []*models.Port{
		stringPort("first", true),
		stringPort("second", true),
	}
	catalog["producer"].Outputs = []*models.Port{
		stringPort("first", true),
		stringPort("second", true),
	}

	wf := &models.WorkflowMetamodel{
		ID:      "wf-join",
		Name:    "join",
		Enabled: true,
		Nodes: []*models.WorkflowNode{
			{ID: "A1", NodeMetamodelID: "producer"},
			{ID: "A2", NodeMetamodelID: "producer"},
			{ID: "B", NodeMetamodelID: "consumer"},
		},
		Edges: []*models.WorkflowEdge{
			{ID: "e1", SourceNodeID: "A1", TargetNodeID: "B", Bindings: map[string]string{"first": "first"}},
			{ID: "e2", SourceNodeID: "A2", TargetNodeID: "B", Bindings: map[string]string{"second": "second"}},
		},
	}

	result := NewValidator(catalog).Validate(context.Background(), wf)

	assert.NotContains(t, componentPaths(result.Warnings), "workflow.nodes.B.requiredInputs")
}

func TestValidate_ConditionChecks(t *testing.T) {
	wf := linearWorkflow()
	wf.Edges[0].Condition = &models.EdgeCondition{Port: "count", Value: "17"}

	result := validate(t, wf)
	assert.Empty(t, result.Errors)

	wf.Edges[0].Condition = &models.EdgeCondition{Port: "count", Value: "many"}
	result = validate(t, wf)
	assert.Contains(t, componentPaths(result.Errors), "workflow.edges.e1.condition.value")

	wf.Edges[0].Condition = &models.EdgeCondition{Port: "nope", Value: "1"}
	result = validate(t, wf)
	assert.Contains(t, componentPaths(result.Errors), "workflow.edges.e1.condition.port")
}

func componentPaths(issues []Issue) []string {
	paths := make([]string, 0, len(issues))
	for _, issue := range issues {
		paths = append(paths, issue.ComponentPath)
	}

	return paths
}

func issueAt(t *testing.T, issues []Issue, path string) Issue {
	t.Helper()

	for _, issue := range issues {
		if issue.ComponentPath == path {
			return issue
		}
	}

	t.Fatalf("no issue at %s", path)

	return Issue{}
}

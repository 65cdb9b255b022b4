package validation

import (
	"sort"
	"strings"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/schema"
)

// checkBindings verifies port-binding satisfaction per edge. Explicit
// bindings must resolve on both endpoints and be type-compatible; a
// mismatch is an error. A target top-level input port left unbound that
// shares its key with a source top-level output port is an implicit
// binding; a mismatch there is only a warning. Required-input keys
// satisfied by either binding kind accumulate across all incoming edges
// of a node; whatever remains unsatisfied is a warning on that node.
func (v *Validator) checkBindings(wf *models.WorkflowMetamodel, metamodels map[string]*models.NodeMetamodel, result *Result) {
	satisfied := make(map[string]map[string]bool, len(wf.Nodes))
	hasIncoming := make(map[string]bool, len(wf.Nodes))

	markSatisfied := func(nodeID, portKey string) {
		if satisfied[nodeID] == nil {
			satisfied[nodeID] = make(map[string]bool)
		}

		satisfied[nodeID][portKey] = true
	}

	for _, edge := range wf.Edges {
		sourceMeta := metamodels[edge.SourceNodeID]
		targetMeta := metamodels[edge.TargetNodeID]

		if sourceMeta == nil || targetMeta == nil {
			// Unresolved endpoints were already reported.
			continue
		}

		hasIncoming[edge.TargetNodeID] = true
		boundTargetPorts := make(map[string]bool, len(edge.Bindings))

		for sourcePath, targetPath := range edge.Bindings {
			sourceSchema, err := resolvePortPath(sourceMeta.Outputs, sourcePath)
			if err != nil {
				result.addError(edgePath(edge, "binding.sourcePath"),
					"binding source path %q: %v", sourcePath, err)
			}

			targetSchema, err := resolvePortPath(targetMeta.Inputs, targetPath)
			if err != nil {
				result.addError(edgePath(edge, "binding.targetPath"),
					"binding target path %q: %v", targetPath, err)
			}

			targetKey := topLevelKey(targetPath)
			boundTargetPorts[targetKey] = true
			markSatisfied(edge.TargetNodeID, targetKey)

			if sourceSchema == nil || targetSchema == nil {
				continue
			}

			if !schema.Compatible(sourceSchema, targetSchema) {
				result.addError(edgePath(edge, "binding.typeMismatch"),
					"binding %q -> %q: source type %s is not compatible with target type %s",
					sourcePath, targetPath, sourceSchema.Type, targetSchema.Type)
			}
		}

		for _, input := range targetMeta.Inputs {
			if boundTargetPorts[input.Key] {
				continue
			}

			output, ok := models.FindPort(sourceMeta.Outputs, input.Key)
			if !ok {
				continue
			}

			markSatisfied(edge.TargetNodeID, input.Key)

			if !schema.Compatible(output.Schema, input.Schema) {
				result.addWarning(edgePath(edge, "binding.implicitMismatch"),
					"implicit binding on key %q: source type %s is not compatible with target type %s",
					input.Key, output.Schema.Type, input.Schema.Type)
			}
		}
	}

	// Entry nodes are fed by the seeded context and port defaults, which
	// static analysis cannot see; only nodes with incoming edges are
	// checked for leftover required inputs.
	for _, node := range wf.Nodes {
		if !hasIncoming[node.ID] {
			continue
		}

		meta := metamodels[node.ID]
		if meta == nil {
			continue
		}

		var unsatisfied []string

		for _, input := range meta.Inputs {
			if input.Schema != nil && input.Schema.Required && !satisfied[node.ID][input.Key] {
				unsatisfied = append(unsatisfied, input.Key)
			}
		}

		if len(unsatisfied) > 0 {
			sort.Strings(unsatisfied)
			result.addWarning("workflow.nodes."+node.ID+".requiredInputs",
				"required inputs not satisfied by any incoming edge: %s", strings.Join(unsatisfied, ", "))
		}
	}
}

// resolvePortPath resolves a dotted binding path: the first segment names
// a port by key, the remainder indexes into that port's schema.
func resolvePortPath(ports []*models.Port, path string) (*schema.PortSchema, error) {
	key, rest, _ := strings.Cut(path, ".")

	port, ok := models.FindPort(ports, key)
	if !ok {
		return nil, &unknownPortError{key: key}
	}

	if port.Schema == nil {
		return nil, &unknownPortError{key: key}
	}

	return port.Schema.ByPath(rest)
}

func topLevelKey(path string) string {
	key, _, _ := strings.Cut(path, ".")

	return key
}

type unknownPortError struct {
	key string
}

func (e *unknownPortError) Error() string {
	return "no port with key \"" + e.key + "\""
}

package validation

import (
	"strconv"
	"strings"
	"time"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/schema"
)

// checkConditions verifies that every edge condition names an existing
// source output port and carries a literal that parses against the port's
// declared type.
func (v *Validator) checkConditions(wf *models.WorkflowMetamodel, metamodels map[string]*models.NodeMetamodel, result *Result) {
	for _, edge := range wf.Edges {
		if edge.Condition == nil {
			continue
		}

		sourceMeta := metamodels[edge.SourceNodeID]
		if sourceMeta == nil {
			continue
		}

		port, ok := sourceMeta.OutputPort(edge.Condition.Port)
		if !ok {
			result.addError(edgePath(edge, "condition.port"),
				"condition references unknown output port %q on node %q", edge.Condition.Port, edge.SourceNodeID)

			continue
		}

		if port.Schema == nil {
			continue
		}

		if err := validateConditionLiteral(edge.Condition.Value, port.Schema.Type); err != "" {
			result.addError(edgePath(edge, "condition.value"),
				"condition value %q: %s", edge.Condition.Value, err)
		}
	}
}

func validateConditionLiteral(value string, t schema.PortType) string {
	switch t {
	case schema.TypeString:
		return ""
	case schema.TypeBoolean:
		lowered := strings.ToLower(value)
		if lowered != "true" && lowered != "false" {
			return "boolean condition must be \"true\" or \"false\""
		}

		return ""
	case schema.TypeInt:
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return "does not parse as int"
		}

		return ""
	case schema.TypeFloat:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "does not parse as float"
		}

		return ""
	case schema.TypeDate:
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return "does not parse as RFC 3339 date"
		}

		return ""
	default:
		// Object and array values cannot be compared as string literals.
		return "port type " + string(t) + " cannot be used in a condition"
	}
}

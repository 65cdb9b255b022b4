package workflow

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fluxion-ai/fluxion/pkg/models"
	"github.com/fluxion-ai/fluxion/pkg/schema"
)

// conditionPasses evaluates an edge condition against the context value
// at the named source output port. An absent condition passes; a missing
// or mismatched value fails and the edge is not taken.
func (e *Executor) conditionPasses(edge *models.WorkflowEdge, sourceMeta *models.NodeMetamodel, execCtx *models.ExecutionContext, logger *slog.Logger) bool {
	cond := edge.Condition
	if cond == nil {
		return true
	}

	actual, ok := execCtx.Get(cond.Port)
	if !ok {
		logger.Debug("Condition port has no context value, edge not taken",
			"edge_id", edge.ID, "condition_port", cond.Port)

		return false
	}

	portType := schema.TypeString

	if sourceMeta != nil {
		if port, found := sourceMeta.OutputPort(cond.Port); found && port.Schema != nil {
			portType = port.Schema.Type
		}
	}

	matched := conditionMatches(actual, cond.Value, portType)
	if !matched {
		logger.Debug("Condition value mismatch, edge not taken",
			"edge_id", edge.ID, "condition_port", cond.Port, "expected", cond.Value, "actual", actual)
	}

	return matched
}

// conditionMatches compares a live context value against the expected
// string literal, parsed per the port's declared type.
func conditionMatches(actual any, expected string, t schema.PortType) bool {
	switch t {
	case schema.TypeBoolean:
		want := strings.EqualFold(expected, "true")

		got, ok := actual.(bool)

		return ok && got == want
	case schema.TypeInt, schema.TypeFloat:
		want, err := strconv.ParseFloat(expected, 64)
		if err != nil {
			return false
		}

		got, ok := numericValue(actual)

		return ok && got == want
	case schema.TypeDate:
		want, err := time.Parse(time.RFC3339, expected)
		if err != nil {
			return false
		}

		switch got := actual.(type) {
		case time.Time:
			return got.Equal(want)
		case string:
			parsed, err := time.Parse(time.RFC3339, got)

			return err == nil && parsed.Equal(want)
		default:
			return false
		}
	case schema.TypeString:
		got, ok := actual.(string)

		return ok && got == expected
	default:
		return false
	}
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

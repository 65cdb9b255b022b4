package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Coerce reshapes untyped data into the schema's shape on a best-effort
// basis: strings are stringified, numbers parsed (nil on failure), booleans
// parsed from "true"/"yes"/"1", arrays and objects rebuilt recursively with
// undeclared properties dropped and absent declared properties set to nil.
// Coerce is idempotent on already-conforming values.
func Coerce(value any, s *PortSchema) any {
	if s == nil || value == nil {
		return nil
	}

	switch s.Type {
	case TypeString:
		return coerceString(value)
	case TypeInt:
		return coerceInt(value)
	case TypeFloat:
		return coerceFloat(value)
	case TypeBoolean:
		return coerceBool(value)
	case TypeDate:
		return coerceDate(value)
	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			return nil
		}

		out := make([]any, 0, len(items))
		for _, item := range items {
			out = append(out, Coerce(item, s.Items))
		}

		return out
	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return nil
		}

		if len(s.Properties) == 0 {
			return obj
		}

		out := make(map[string]any, len(s.Properties))

		for key, prop := range s.Properties {
			propValue, present := obj[key]
			if !present {
				out[key] = nil

				continue
			}

			out[key] = Coerce(propValue, prop)
		}

		return out
	}

	return nil
}

func coerceString(value any) any {
	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", value)
}

func coerceInt(value any) any {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil
		}

		return parsed
	default:
		return nil
	}
}

func coerceFloat(value any) any {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}

		return parsed
	default:
		return nil
	}
}

func coerceBool(value any) any {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true
		default:
			return false
		}
	default:
		return nil
	}
}

func coerceDate(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil
		}

		return parsed
	default:
		return nil
	}
}

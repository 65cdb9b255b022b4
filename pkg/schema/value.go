package schema

import (
	"time"
)

// ValidValue reports whether a value conforms to the schema. A nil value
// (or empty string) is valid exactly when the schema is not required.
// Objects are checked against declared properties only: a required declared
// property missing from the value fails, while undeclared properties in the
// value are tolerated.
func ValidValue(value any, s *PortSchema) bool {
	if s == nil {
		return false
	}

	if isEmpty(value) {
		return !s.Required
	}

	switch s.Type {
	case TypeString:
		_, ok := value.(string)

		return ok
	case TypeInt:
		return isIntValue(value)
	case TypeFloat:
		return isFloatValue(value)
	case TypeBoolean:
		_, ok := value.(bool)

		return ok
	case TypeDate:
		return isDateValue(value)
	case TypeArray:
		items, ok := value.([]any)
		if !ok {
			return false
		}

		for _, item := range items {
			if !ValidValue(item, s.Items) {
				return false
			}
		}

		return true
	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return false
		}

		for key, prop := range s.Properties {
			propValue, present := obj[key]
			if !present {
				if prop.Required {
					return false
				}

				continue
			}

			if !ValidValue(propValue, prop) {
				return false
			}
		}

		return true
	}

	return false
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}

	if s, ok := value.(string); ok {
		return s == ""
	}

	return false
}

func isIntValue(value any) bool {
	switch v := value.(type) {
	case int, int32, int64:
		return true
	case float64:
		// JSON numbers decode as float64; accept integral values.
		return v == float64(int64(v))
	case float32:
		return v == float32(int64(v))
	default:
		return false
	}
}

func isFloatValue(value any) bool {
	switch value.(type) {
	case float32, float64, int, int32, int64:
		return true
	default:
		return false
	}
}

func isDateValue(value any) bool {
	switch v := value.(type) {
	case time.Time:
		return true
	case string:
		_, err := time.Parse(time.RFC3339, v)

		return err == nil
	default:
		return false
	}
}

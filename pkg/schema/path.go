package schema

import (
	"fmt"
	"strings"
)

// ByPath resolves a dotted path through object properties and returns the
// sub-schema it names. The empty path resolves to the schema itself.
func (s *PortSchema) ByPath(path string) (*PortSchema, error) {
	if path == "" {
		return s, nil
	}

	current := s
	segments := strings.Split(path, ".")

	for i, segment := range segments {
		at := "schema root"
		if i > 0 {
			at = fmt.Sprintf("%q", strings.Join(segments[:i], "."))
		}

		if current.Type != TypeObject {
			return nil, fmt.Errorf("cannot resolve %q: %s is of type %s, not object", path, at, current.Type)
		}

		if len(current.Properties) == 0 {
			return nil, fmt.Errorf("cannot resolve %q: object at %s declares no properties", path, at)
		}

		next, ok := current.Properties[segment]
		if !ok {
			return nil, fmt.Errorf("cannot resolve %q: no property %q at %s", path, segment, at)
		}

		current = next
	}

	return current, nil
}

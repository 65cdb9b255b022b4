// Package schema implements the recursive port type system used by node
// metamodels: type descriptors, directional compatibility, dotted-path
// resolution, value validation and best-effort coercion.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PortType is the closed set of types a port value can have.
type PortType string

const (
	TypeString  PortType = "string"
	TypeInt     PortType = "int"
	TypeFloat   PortType = "float"
	TypeBoolean PortType = "boolean"
	TypeDate    PortType = "date"
	TypeObject  PortType = "object"
	TypeArray   PortType = "array"
)

var portTypes = map[PortType]struct{}{
	TypeString:  {},
	TypeInt:     {},
	TypeFloat:   {},
	TypeBoolean: {},
	TypeDate:    {},
	TypeObject:  {},
	TypeArray:   {},
}

// PortSchema describes the shape of a port value. Exactly one structural
// invariant holds per instance: Items is set iff Type is array, Properties
// is set iff Type is object (an object with zero properties is "open" and
// accepts any object). Instances are treated as immutable after Validate.
type PortSchema struct {
	Type       PortType               `json:"type"`
	Required   bool                   `json:"required,omitempty"`
	Items      *PortSchema            `json:"items,omitempty"`
	Properties map[string]*PortSchema `json:"properties,omitempty"`
}

// NewPrimitive builds a schema for one of the non-container types.
func NewPrimitive(t PortType, required bool) (*PortSchema, error) {
	if t == TypeObject || t == TypeArray {
		return nil, fmt.Errorf("type %q is not a primitive", t)
	}

	s := &PortSchema{Type: t, Required: required}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// NewArray builds an array schema around the given item schema.
func NewArray(items *PortSchema, required bool) (*PortSchema, error) {
	s := &PortSchema{Type: TypeArray, Required: required, Items: items}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// NewObject builds an object schema. Properties may be empty but not nil:
// an empty map declares an open object.
func NewObject(properties map[string]*PortSchema, required bool) (*PortSchema, error) {
	s := &PortSchema{Type: TypeObject, Required: required, Properties: properties}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// MustPrimitive is NewPrimitive for statically-known types, panicking on
// misuse. Intended for package-level port declarations in node factories.
func MustPrimitive(t PortType, required bool) *PortSchema {
	s, err := NewPrimitive(t, required)
	if err != nil {
		panic(err)
	}

	return s
}

// Validate checks the structural invariants of the schema tree. Decoded
// schemas must pass through here before use.
func (s *PortSchema) Validate() error {
	if s == nil {
		return errors.New("port schema is nil")
	}

	if _, ok := portTypes[s.Type]; !ok {
		return fmt.Errorf("unknown port type %q", s.Type)
	}

	switch s.Type {
	case TypeArray:
		if s.Items == nil {
			return errors.New("array schema requires items")
		}

		if s.Properties != nil {
			return errors.New("array schema must not declare properties")
		}

		if err := s.Items.Validate(); err != nil {
			return fmt.Errorf("items: %w", err)
		}
	case TypeObject:
		if s.Items != nil {
			return errors.New("object schema must not declare items")
		}

		if s.Properties == nil {
			return errors.New("object schema requires properties (may be empty)")
		}

		for key, prop := range s.Properties {
			if err := prop.Validate(); err != nil {
				return fmt.Errorf("properties.%s: %w", key, err)
			}
		}
	default:
		if s.Items != nil || s.Properties != nil {
			return fmt.Errorf("%s schema must not declare items or properties", s.Type)
		}
	}

	return nil
}

// UnmarshalJSON decodes and validates in one step so that a schema read
// from the wire upholds the construction invariants.
func (s *PortSchema) UnmarshalJSON(data []byte) error {
	type portSchema PortSchema

	var raw portSchema

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = PortSchema(raw)

	return s.Validate()
}

// IsPrimitive reports whether the schema is one of the non-container types.
func (s *PortSchema) IsPrimitive() bool {
	return s.Type != TypeObject && s.Type != TypeArray
}

// IsOpenObject reports whether the schema is an object declaring no
// properties, which accepts any object value.
func (s *PortSchema) IsOpenObject() bool {
	return s.Type == TypeObject && len(s.Properties) == 0
}

package models

import (
	"strings"
)

// ExecutionContext is the shared key-value store one workflow run reads
// and writes. Keys are addressed by dotted paths ("user.address.zip");
// intermediate segments traverse nested maps and are created on demand by
// Put. A context is exclusively owned by a single run: it is created empty
// or seeded at start, mutated by node instances and bindings while the run
// progresses, and discarded when the run ends. It is not safe for
// concurrent use and is never shared across runs.
type ExecutionContext struct {
	ID         string `json:"id"`
	WorkflowID string `json:"workflow_id"`

	values map[string]any
}

// NewExecutionContext creates a context seeded with the given values. The
// seed map is copied at the top level; nested maps are shared.
func NewExecutionContext(id, workflowID string, seed map[string]any) *ExecutionContext {
	values := make(map[string]any, len(seed))
	for k, v := range seed {
		values[k] = v
	}

	return &ExecutionContext{
		ID:         id,
		WorkflowID: workflowID,
		values:     values,
	}
}

// Get resolves a dotted path. The second return value reports whether the
// full path was present.
func (c *ExecutionContext) Get(path string) (any, bool) {
	segments := strings.Split(path, ".")
	current := c.values

	for i, segment := range segments {
		value, ok := current[segment]
		if !ok {
			return nil, false
		}

		if i == len(segments)-1 {
			return value, true
		}

		next, ok := value.(map[string]any)
		if !ok {
			return nil, false
		}

		current = next
	}

	return nil, false
}

// Has reports whether a dotted path resolves to a value.
func (c *ExecutionContext) Has(path string) bool {
	_, ok := c.Get(path)

	return ok
}

// Put writes a value at a dotted path, creating intermediate maps as
// needed. A non-map value sitting where an intermediate segment must
// descend is replaced by a fresh map.
func (c *ExecutionContext) Put(path string, value any) {
	segments := strings.Split(path, ".")
	current := c.values

	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}

		current = next
	}

	current[segments[len(segments)-1]] = value
}

// Values exposes the underlying store for result reporting. Callers must
// not retain it past the run.
func (c *ExecutionContext) Values() map[string]any {
	return c.values
}

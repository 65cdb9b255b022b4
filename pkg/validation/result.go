// Package validation statically analyzes workflow metamodels before they
// may run: graph well-formedness, reference integrity, acyclicity and
// port-binding satisfaction. All checks accumulate issues as data; nothing
// here ever aborts the process.
package validation

import "fmt"

// Issue is one finding, located by a dotted component path such as
// "workflow.edges.e1.binding.typeMismatch" for tooling display.
type Issue struct {
	Message       string `json:"message"`
	ComponentPath string `json:"component_path"`
}

// Result is the outcome of validating one workflow metamodel. Errors
// block deployment; warnings are advisory.
type Result struct {
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// HasErrors reports whether the workflow failed validation.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *Result) addError(componentPath, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{
		Message:       fmt.Sprintf(format, args...),
		ComponentPath: componentPath,
	})
}

func (r *Result) addWarning(componentPath, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{
		Message:       fmt.Sprintf(format, args...),
		ComponentPath: componentPath,
	})
}

// Package template renders node configuration strings (LLM prompts, REST
// urls and bodies) against execution context values using Go's
// text/template syntax.
package template

import (
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/fluxion-ai/fluxion/pkg/models"
)

var funcs = template.FuncMap{
	"now": func() string { return time.Now().UTC().Format(time.RFC3339) },
	"env": os.Getenv,
}

// Parse validates a template string without rendering it.
func Parse(text string) (*template.Template, error) {
	return template.New("config").Funcs(funcs).Option("missingkey=zero").Parse(text)
}

// Render renders a template string against arbitrary data.
func Render(text string, data map[string]any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var out strings.Builder

	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return out.String(), nil
}

// RenderWithContext renders a template string against the values of an
// execution context.
func RenderWithContext(text string, execCtx *models.ExecutionContext) (string, error) {
	return Render(text, execCtx.Values())
}

package registry

import (
	"errors"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// validateConfig checks a metamodel's Config document against the
// factory's JSON schema. A factory without a schema accepts anything.
func validateConfig(config map[string]any, schema map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return err
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}

	return errors.New(strings.Join(messages, "; "))
}

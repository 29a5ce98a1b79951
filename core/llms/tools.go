package llms

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Tool is a function tool exposed to the generation provider. Parameters is
// the JSON schema of the arguments object, derived from the typed handler's
// parameter struct.
type Tool struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema

	execute func(ctx context.Context, arguments string) (string, error)
}

// Execute runs the tool handler with the provider-supplied JSON arguments.
func (t Tool) Execute(ctx context.Context, arguments string) (string, error) {
	if t.execute == nil {
		return "", fmt.Errorf("tool %q has no handler", t.Name)
	}
	return t.execute(ctx, arguments)
}

// NewTool creates a tool from a typed handler. The parameter struct's JSON
// schema is reflected once at construction; arguments are unmarshalled into
// a fresh T per call.
func NewTool[T any](name, description string, handler func(ctx context.Context, parameters T) (string, error)) Tool {
	reflector := jsonschema.Reflector{DoNotReference: true}
	var zero T
	schema := reflector.Reflect(&zero)
	schema.Version = ""

	return Tool{
		Name:        name,
		Description: description,
		Parameters:  schema,
		execute: func(ctx context.Context, arguments string) (string, error) {
			var parameters T
			if arguments != "" {
				if err := json.Unmarshal([]byte(arguments), &parameters); err != nil {
					return "", fmt.Errorf("failed to unmarshal arguments for tool %q: %w", name, err)
				}
			}
			return handler(ctx, parameters)
		},
	}
}

package tools

import (
	"context"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Tool is a named operation callable by the agent host, the CLI or a model.
type Tool interface {
	// Name returns the unique tool identifier.
	Name() string
	// Description returns a short human-readable summary.
	Description() string
	// Parameters describes the accepted arguments as JSON schema.
	Parameters() jsonschema.Definition
	// Execute runs the tool and returns one of the result types of this package.
	Execute(ctx context.Context, args Args) (interface{}, error)
}

// HandlerFunc is the function signature for tool handlers.
type HandlerFunc func(ctx context.Context, args Args) (interface{}, error)

// FunctionTool is a Tool backed by a handler function.
type FunctionTool struct {
	name        string
	description string
	params      jsonschema.Definition
	handler     HandlerFunc
}

// New creates a function-backed tool.
func New(name, description string, params jsonschema.Definition, handler HandlerFunc) Tool {
	return &FunctionTool{
		name:        name,
		description: description,
		params:      params,
		handler:     handler,
	}
}

func (t *FunctionTool) Name() string                      { return t.name }
func (t *FunctionTool) Description() string               { return t.description }
func (t *FunctionTool) Parameters() jsonschema.Definition { return t.params }

func (t *FunctionTool) Execute(ctx context.Context, args Args) (interface{}, error) {
	if args == nil {
		args = Args{}
	}
	return t.handler(ctx, args)
}

// object builds an object schema from property definitions.
func object(required []string, props map[string]jsonschema.Definition) jsonschema.Definition {
	if props == nil {
		props = map[string]jsonschema.Definition{}
	}
	return jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: props,
		Required:   required,
	}
}

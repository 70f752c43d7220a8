package tools

import (
	"github.com/sashabaranov/go-openai"
)

// Definitions exports the registered tools as OpenAI function definitions.
func Definitions(reg *Registry) []openai.Tool {
	list := reg.Tools()
	defs := make([]openai.Tool, 0, len(list))
	for _, t := range list {
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return defs
}

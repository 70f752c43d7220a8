package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/types"
)

const routerPrompt = `You route blockchain whale analytics requests to exactly one tool.
Pick the single best tool for the request and fill its arguments from the request.
Addresses must be copied exactly. Omit "chain" unless the user names a network.
If no tool fits, answer briefly without calling a tool.`

// ChatClient is the subset of the OpenAI client the router needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NLPRouter maps free text onto a tool call with OpenAI function calling.
type NLPRouter struct {
	client ChatClient
	model  string
	tools  []openai.Tool
	log    *logger.Logger
}

// NewNLPRouter creates a router offering tools to model.
func NewNLPRouter(client ChatClient, model string, tools []openai.Tool, log *logger.Logger) *NLPRouter {
	if log == nil {
		log = logger.Get()
	}
	return &NLPRouter{
		client: client,
		model:  model,
		tools:  tools,
		log:    log.With("component", "nlp_router"),
	}
}

// Route asks the model which tool answers text. The result always uses the
// text response format.
func (r *NLPRouter) Route(ctx context.Context, text string) (*types.TaskRequest, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: routerPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Tools: r.tools,
	})
	if err != nil {
		return nil, fmt.Errorf("route task: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: model returned no choices", types.ErrInvalidTask)
	}

	msg := resp.Choices[0].Message
	if len(msg.ToolCalls) == 0 {
		reply := strings.TrimSpace(msg.Content)
		if reply == "" {
			reply = "no tool matches the request"
		}
		return nil, fmt.Errorf("%w: %s", types.ErrInvalidTask, reply)
	}

	call := msg.ToolCalls[0].Function
	req := &types.TaskRequest{
		Tool:   call.Name,
		Args:   map[string]interface{}{},
		Format: types.ResponseFormatText,
	}
	if args := strings.TrimSpace(call.Arguments); args != "" {
		dec := json.NewDecoder(strings.NewReader(args))
		dec.UseNumber()
		if err := dec.Decode(&req.Args); err != nil {
			return nil, fmt.Errorf("%w: bad arguments for %s: %v", types.ErrInvalidTask, call.Name, err)
		}
	}

	r.log.Debugw("Routed task", "tool", req.Tool, "args", req.Args)
	return req, nil
}

// Package scanner wires the tool registry to the agent host and the CLI.
package scanner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/render"
	"github.com/TeneoProtocolAI/whale-scanner-agent/internal/tools"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/agent"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/logger"
	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/types"
)

// Router turns free text into a task request.
type Router interface {
	Route(ctx context.Context, text string) (*types.TaskRequest, error)
}

// ToolError is a tool failure carrying the tool name for report formatting.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string { return render.Error(e.Tool, e.Err) }
func (e *ToolError) Unwrap() error { return e.Err }

// Agent answers tasks by running registry tools.
type Agent struct {
	registry *tools.Registry
	router   Router
	log      *logger.Logger
	cleanup  func() error
}

// NewAgent creates an agent. router may be nil, in which case only JSON and
// command-form tasks are understood.
func NewAgent(registry *tools.Registry, router Router, log *logger.Logger) *Agent {
	if log == nil {
		log = logger.Get()
	}
	return &Agent{
		registry: registry,
		router:   router,
		log:      log.With("component", "agent"),
	}
}

// ProcessTask implements types.AgentHandler.
func (a *Agent) ProcessTask(ctx context.Context, task string) (string, error) {
	req, err := a.resolve(ctx, task)
	if err != nil {
		return "", err
	}
	return a.Execute(ctx, req)
}

// Execute runs one resolved request and formats its result.
func (a *Agent) Execute(ctx context.Context, req *types.TaskRequest) (string, error) {
	tool, ok := a.registry.Get(req.Tool)
	if !ok {
		return "", fmt.Errorf("%w: %s", types.ErrUnknownTool, req.Tool)
	}

	a.log.Infow("Running tool", "tool", req.Tool, "args", req.Args)
	result, err := tool.Execute(ctx, tools.Args(req.Args))
	if err != nil {
		return "", &ToolError{Tool: req.Tool, Err: err}
	}

	if req.Format == types.ResponseFormatJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal result: %w", err)
		}
		return string(out), nil
	}
	return render.Text(result)
}

// Cleanup implements types.AgentCleaner.
func (a *Agent) Cleanup(context.Context) error {
	if a.cleanup == nil {
		return nil
	}
	return a.cleanup()
}

func (a *Agent) resolve(ctx context.Context, task string) (*types.TaskRequest, error) {
	req, err := agent.ParseTask(task)
	if err == nil {
		if _, ok := a.registry.Get(req.Tool); ok {
			return req, nil
		}
		err = fmt.Errorf("%w: %s", types.ErrUnknownTool, req.Tool)
	}

	if a.router == nil {
		return nil, err
	}
	a.log.Debugw("Routing free-text task", "reason", err)
	return a.router.Route(ctx, task)
}

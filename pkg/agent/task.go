package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/TeneoProtocolAI/whale-scanner-agent/pkg/types"
)

// ParseTask accepts either a JSON task ({"tool": ..., "args": {...}, "format": ...})
// or the command form "<tool> key=value ...". A leading slash is ignored.
func ParseTask(raw string) (*types.TaskRequest, error) {
	task := strings.TrimSpace(raw)
	task = strings.TrimPrefix(task, "/")
	if task == "" {
		return nil, fmt.Errorf("%w: empty task", types.ErrInvalidTask)
	}

	var req types.TaskRequest
	if strings.HasPrefix(task, "{") {
		dec := json.NewDecoder(strings.NewReader(task))
		dec.UseNumber()
		if err := dec.Decode(&req); err != nil {
			return nil, fmt.Errorf("%w: %v", types.ErrInvalidTask, err)
		}
	} else {
		fields := strings.Fields(task)
		req.Tool = fields[0]
		req.Args = make(map[string]interface{}, len(fields)-1)
		for _, f := range fields[1:] {
			key, value, ok := strings.Cut(f, "=")
			if !ok || key == "" {
				return nil, fmt.Errorf("%w: expected key=value, got %q", types.ErrInvalidTask, f)
			}
			if key == "format" {
				req.Format = value
				continue
			}
			req.Args[key] = value
		}
	}

	if req.Tool == "" {
		return nil, fmt.Errorf("%w: missing tool", types.ErrInvalidTask)
	}
	if req.Args == nil {
		req.Args = map[string]interface{}{}
	}

	req.Format = strings.ToLower(req.Format)
	switch req.Format {
	case "":
		req.Format = types.ResponseFormatText
	case types.ResponseFormatText, types.ResponseFormatJSON:
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", types.ErrInvalidTask, req.Format)
	}

	return &req, nil
}

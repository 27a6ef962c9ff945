// In file: internal/agent/decision.go
package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dileep-u-k/taskmaster-agent/internal/llm"
)

// Decision is what the model chose to do with the query: either a
// DirectAnswer or a ToolCallRequest.
type Decision interface {
	isDecision()
}

// DirectAnswer is a plain text reply with no tool involvement.
type DirectAnswer struct {
	Text string
}

// ToolCallRequest is the model asking for one tool invocation.
type ToolCallRequest struct {
	ID   string
	Name string
	// RawArgs is the JSON the model produced; Args is its decoded form.
	RawArgs string
	Args    map[string]any
}

func (DirectAnswer) isDecision()    {}
func (ToolCallRequest) isDecision() {}

// Location returns the "location" argument, or "" if absent or not a string.
func (r ToolCallRequest) Location() string {
	loc, _ := r.Args["location"].(string)
	return strings.TrimSpace(loc)
}

// decide inspects one generation result. Only the first tool call is honoured;
// the agent never chains tools.
func decide(result *llm.GenerationResult) (Decision, error) {
	if len(result.ToolCalls) == 0 {
		if strings.TrimSpace(result.Content) == "" {
			return nil, errors.New("model returned neither text nor a tool call")
		}
		return DirectAnswer{Text: result.Content}, nil
	}

	call := result.ToolCalls[0]
	req := ToolCallRequest{
		ID:      call.ID,
		Name:    call.Function.Name,
		RawArgs: call.Function.Arguments,
		Args:    map[string]any{},
	}
	if strings.TrimSpace(req.RawArgs) != "" {
		if err := json.Unmarshal([]byte(req.RawArgs), &req.Args); err != nil {
			return nil, fmt.Errorf("model produced malformed arguments for %s: %w", req.Name, err)
		}
	}
	return req, nil
}

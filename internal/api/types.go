// In file: internal/api/types.go

// Package api defines the public request and response payloads of the agent's
// HTTP surface. These types are shared by the request handler and the orchestrator
// so the JSON shape only lives in one place.
package api

// AgentRequest is the body of a POST /agent call.
type AgentRequest struct {
	// Query is the user's natural-language input. It must not be blank.
	Query string `json:"query" binding:"required"`
}

// AgentResponse is the final answer returned to the caller.
type AgentResponse struct {
	Response string `json:"response"`
	// ToolUsed reports whether the weather tool was invoked while answering.
	ToolUsed bool `json:"tool_used"`
	// Error is set when the tool ran but failed, and Response explains the failure.
	Error bool       `json:"error,omitempty"`
	Debug *DebugInfo `json:"debug_info,omitempty"`
}

// DebugInfo exposes what the agent decided, for troubleshooting prompts.
type DebugInfo struct {
	ToolCalled     string         `json:"tool_called"`
	ToolParameters map[string]any `json:"tool_parameters,omitempty"`
	ToolResult     string         `json:"tool_result,omitempty"`
	// Usage totals the tokens of every model pass made for the query.
	Usage *Usage `json:"usage,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Response  string `json:"response,omitempty"`
	ToolUsed  bool   `json:"tool_used,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Usage tracks token consumption for a single LLM call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates another call's usage into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

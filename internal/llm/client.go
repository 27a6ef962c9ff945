// In file: internal/llm/client.go

// Package llm contains the provider clients the agent uses to talk to large
// language models, plus an optional Redis-backed usage profiler.
package llm

import (
	"context"

	"github.com/dileep-u-k/taskmaster-agent/internal/api"
	"github.com/dileep-u-k/taskmaster-agent/internal/tools"
)

// =================================================================================
// Core Data Structures
// =================================================================================

// Role represents the originator of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one turn of the (single-request) conversation sent to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	// ToolCallID and Name identify which call a RoleTool message answers.
	ToolCallID string            `json:"tool_call_id,omitempty"`
	Name       string            `json:"name,omitempty"`
	ToolCalls  []*tools.ToolCall `json:"tool_calls,omitempty"`
}

// GenerationConfig controls a single generation request.
type GenerationConfig struct {
	Model string
	// SystemInstruction is sent ahead of the conversation when non-empty.
	SystemInstruction string
	// Pointers distinguish "unset" from an explicit zero.
	Temperature *float32
	TopP        *float32
	TopK        *int32
	MaxTokens   int
}

// GenerationResult is the complete output of one LLM call.
type GenerationResult struct {
	Content string
	// ToolCalls requested by the model. The agent acts on at most one.
	ToolCalls []*tools.ToolCall
	Usage     api.Usage
}

// =================================================================================
// LLM Client Interface
// =================================================================================

// LLMClient is implemented by every model provider. Implementations must be
// safe for concurrent use; handlers share a single instance.
type LLMClient interface {
	// Generate performs one blocking request. availableTools may be nil, in
	// which case the model can only answer in text.
	Generate(
		ctx context.Context,
		messages []Message,
		config *GenerationConfig,
		availableTools []tools.Tool,
	) (*GenerationResult, error)
}

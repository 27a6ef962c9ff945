// In file: internal/tools/executor.go
package tools

import "context"

// ToolExecutor is implemented by every tool the agent can offer to the model.
type ToolExecutor interface {
	// Definition returns the schema passed unchanged on every LLM call.
	Definition() Tool

	// Execute runs the tool with the model-generated JSON arguments.
	// Errors are returned unswallowed so the orchestrator can classify them.
	Execute(ctx context.Context, arguments string) (*Result, error)
}

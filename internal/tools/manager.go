// In file: internal/tools/manager.go
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

var (
	ErrToolNotFound    = errors.New("tool not found")
	ErrMissingArgument = errors.New("missing required argument")
)

// ToolManager holds the registry of available tools. It is populated once at
// startup and only read afterwards.
type ToolManager struct {
	tools map[string]ToolExecutor
}

func NewToolManager() *ToolManager {
	return &ToolManager{
		tools: make(map[string]ToolExecutor),
	}
}

// Register adds a tool, replacing any tool with the same name.
func (tm *ToolManager) Register(tool ToolExecutor) {
	name := tool.Definition().Function.Name
	tm.tools[name] = tool
}

// GetDefinitions returns every registered definition, sorted by name so the
// payload sent to the model is stable between calls.
func (tm *ToolManager) GetDefinitions() []Tool {
	defs := make([]Tool, 0, len(tm.tools))
	for _, tool := range tm.tools {
		defs = append(defs, tool.Definition())
	}
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Function.Name < defs[j].Function.Name
	})
	return defs
}

// Has reports whether a tool with the given name is registered.
func (tm *ToolManager) Has(name string) bool {
	_, ok := tm.tools[name]
	return ok
}

// Execute runs a tool by name with the given arguments.
func (tm *ToolManager) Execute(ctx context.Context, name, arguments string) (*Result, error) {
	tool, ok := tm.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrToolNotFound, name)
	}
	return tool.Execute(ctx, arguments)
}

// ToolCount returns the number of registered tools.
func (tm *ToolManager) ToolCount() int {
	return len(tm.tools)
}

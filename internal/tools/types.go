// In file: internal/tools/types.go

// Package tools describes the functions the agent offers to the LLM and the
// registry that executes them. The types are provider-agnostic; each LLM client
// translates them into its own wire format.
package tools

// ToolTypeFunction is the only tool type the agent uses.
const ToolTypeFunction = "function"

// Tool is the schema sent *to* the model so it knows a function exists.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function names a callable tool and describes its arguments.
type Function struct {
	Name string `json:"name"`
	// Description is what the model reads when deciding whether to call the tool.
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"`
}

// JSONSchema is the small subset of JSON Schema needed for tool parameters.
type JSONSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
}

// ToolCall is a request *from* the model to run a tool.
type ToolCall struct {
	// ID matches the tool's output back to this call on the follow-up turn.
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction holds the function name and its JSON-encoded arguments.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Result is what a tool hands back to the orchestrator.
type Result struct {
	// Content is sent back to the model as the tool's output.
	Content string
	// Data is the typed value behind Content, e.g. a *weather.Reading.
	Data any
}

// NewFunctionTool builds a Tool of type "function".
func NewFunctionTool(name, description string, parameters JSONSchema) Tool {
	return Tool{
		Type: ToolTypeFunction,
		Function: Function{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

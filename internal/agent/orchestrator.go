// In file: internal/agent/orchestrator.go

// Package agent coordinates the two-pass conversation with the LLM and the
// optional weather lookup in between. An Orchestrator holds only immutable
// dependencies, so one instance serves every request concurrently.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/dileep-u-k/taskmaster-agent/internal/api"
	"github.com/dileep-u-k/taskmaster-agent/internal/llm"
	"github.com/dileep-u-k/taskmaster-agent/internal/tools"
	"github.com/dileep-u-k/taskmaster-agent/internal/weather"
)

// DefaultSystemPrompt steers the model towards the weather tool only when live
// data is actually needed.
const DefaultSystemPrompt = `You are TaskMaster, a concise and helpful assistant.
If answering the user requires current weather conditions for a place, call the get_weather tool with the location the user named.
For anything else, answer directly without calling a tool.
When a tool result is provided, base your answer only on that result and never invent weather data.`

// Options holds the per-deployment settings of an Orchestrator.
type Options struct {
	Model        string
	SystemPrompt string
	Temperature  *float32
	TopP         *float32
	TopK         *int32
	MaxTokens    int
	// IncludeDebug attaches DebugInfo to every response.
	IncludeDebug bool
}

// Orchestrator implements the agent's request flow.
type Orchestrator struct {
	client  llm.LLMClient
	tools   *tools.ToolManager
	options Options
}

func NewOrchestrator(client llm.LLMClient, toolManager *tools.ToolManager, opts Options) *Orchestrator {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = DefaultSystemPrompt
	}
	return &Orchestrator{client: client, tools: toolManager, options: opts}
}

func (o *Orchestrator) generationConfig() *llm.GenerationConfig {
	return &llm.GenerationConfig{
		Model:             o.options.Model,
		SystemInstruction: o.options.SystemPrompt,
		Temperature:       o.options.Temperature,
		TopP:              o.options.TopP,
		TopK:              o.options.TopK,
		MaxTokens:         o.options.MaxTokens,
	}
}

// Handle answers one query. When a weather lookup fails, both a response
// explaining the failure and a classified *Error are returned.
func (o *Orchestrator) Handle(ctx context.Context, query string) (*api.AgentResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newError(KindInvalidRequest, "Query cannot be empty.", nil)
	}
	log.Printf("--- Starting agent run for query: '%.60s' ---", query)

	messages := []llm.Message{{Role: llm.RoleUser, Content: query}}
	first, err := o.client.Generate(ctx, messages, o.generationConfig(), o.tools.GetDefinitions())
	if err != nil {
		return nil, newError(KindModelUnavailable, "The language model is currently unavailable.", err)
	}

	usage := &api.Usage{}
	usage.Add(first.Usage)

	decision, err := decide(first)
	if err != nil {
		return nil, newError(KindModelUnavailable, "The language model returned an unusable response.", err)
	}

	switch d := decision.(type) {
	case DirectAnswer:
		log.Println("--- Model answered directly, no tool needed ---")
		return o.respond(d.Text, false, &api.DebugInfo{ToolCalled: "none", Usage: usage}), nil
	case ToolCallRequest:
		return o.runTool(ctx, messages, first.ToolCalls[0], d, usage)
	default:
		return nil, newError(KindModelUnavailable, "The language model returned an unusable response.",
			fmt.Errorf("unexpected decision %T", decision))
	}
}

// runTool executes the requested tool once and, on success, asks the model to
// phrase the final answer from the tool output.
func (o *Orchestrator) runTool(ctx context.Context, messages []llm.Message, call *tools.ToolCall, req ToolCallRequest, usage *api.Usage) (*api.AgentResponse, error) {
	if !o.tools.Has(req.Name) {
		return nil, newError(KindModelUnavailable,
			fmt.Sprintf("The language model requested an unsupported tool '%s'.", req.Name), tools.ErrToolNotFound)
	}
	log.Printf("🛠️ Executing tool: %s (ID: %s) with args: %s", req.Name, req.ID, req.RawArgs)

	debug := &api.DebugInfo{ToolCalled: req.Name, ToolParameters: req.Args, Usage: usage}
	result, err := o.tools.Execute(ctx, req.Name, req.RawArgs)
	switch {
	case errors.Is(err, tools.ErrMissingArgument) || errors.Is(err, weather.ErrEmptyLocation):
		log.Printf("--- Tool %s is missing arguments, asking the user ---", req.Name)
		return o.askForLocation(ctx, messages, call, req, debug)
	case isWeatherFailure(err):
		agentErr := classifyWeatherError(req.Location(), err)
		log.Printf("--- Weather tool error (%s): %v ---", agentErr.Kind, err)
		debug.ToolResult = "Error: " + agentErr.Message
		resp := o.respond(agentErr.Message, true, debug)
		resp.Error = true
		return resp, agentErr
	case err != nil:
		return nil, newError(KindModelUnavailable, "The language model produced invalid tool arguments.", err)
	}
	debug.ToolResult = result.Content

	followUp := append(messages,
		llm.Message{Role: llm.RoleAssistant, ToolCalls: []*tools.ToolCall{call}},
		llm.Message{Role: llm.RoleTool, ToolCallID: req.ID, Name: req.Name, Content: result.Content},
	)
	final, err := o.client.Generate(ctx, followUp, o.generationConfig(), nil)
	if err != nil {
		return nil, newError(KindModelUnavailable, "The language model is currently unavailable.", err)
	}
	usage.Add(final.Usage)
	if strings.TrimSpace(final.Content) == "" {
		return nil, newError(KindModelUnavailable, "The language model returned an empty answer.", nil)
	}
	log.Println("--- Model produced final answer from tool result ---")
	return o.respond(final.Content, true, debug), nil
}

// askForLocation reports the missing argument back to the model as the tool's
// output so it can ask the user which place they meant. No lookup happens.
func (o *Orchestrator) askForLocation(ctx context.Context, messages []llm.Message, call *tools.ToolCall, req ToolCallRequest, debug *api.DebugInfo) (*api.AgentResponse, error) {
	toolOutput := "Error: no location was given. Politely ask the user which city or place they want the weather for."
	debug.ToolResult = toolOutput

	followUp := append(messages,
		llm.Message{Role: llm.RoleAssistant, ToolCalls: []*tools.ToolCall{call}},
		llm.Message{Role: llm.RoleTool, ToolCallID: req.ID, Name: req.Name, Content: toolOutput},
	)
	final, err := o.client.Generate(ctx, followUp, o.generationConfig(), nil)
	if err != nil {
		return nil, newError(KindModelUnavailable, "The language model is currently unavailable.", err)
	}
	debug.Usage.Add(final.Usage)
	text := strings.TrimSpace(final.Content)
	if text == "" {
		text = "Which location would you like the weather for?"
	}
	return o.respond(text, false, debug), nil
}

func (o *Orchestrator) respond(text string, toolUsed bool, debug *api.DebugInfo) *api.AgentResponse {
	resp := &api.AgentResponse{Response: strings.TrimSpace(text), ToolUsed: toolUsed}
	if o.options.IncludeDebug {
		resp.Debug = debug
	}
	return resp
}

func isWeatherFailure(err error) bool {
	return errors.Is(err, weather.ErrLocationNotFound) ||
		errors.Is(err, weather.ErrProviderUnavailable) ||
		errors.Is(err, weather.ErrInvalidCredentials)
}

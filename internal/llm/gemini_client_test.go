package llm

import (
	"testing"

	"github.com/dileep-u-k/taskmaster-agent/internal/tools"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherDefinition() tools.Tool {
	return tools.NewFunctionTool("get_weather", "Get the weather", tools.JSONSchema{
		Type: "object",
		Properties: map[string]*tools.JSONSchema{
			"location": {Type: "string", Description: "City"},
		},
		Required: []string{"location"},
	})
}

func TestToGeminiTools(t *testing.T) {
	got := toGeminiTools([]tools.Tool{weatherDefinition()})
	require.Len(t, got, 1)
	require.Len(t, got[0].FunctionDeclarations, 1)

	decl := got[0].FunctionDeclarations[0]
	assert.Equal(t, "get_weather", decl.Name)
	assert.Equal(t, genai.TypeObject, decl.Parameters.Type)
	assert.Equal(t, []string{"location"}, decl.Parameters.Required)
	assert.Equal(t, genai.TypeString, decl.Parameters.Properties["location"].Type)
}

func TestToGeminiParts(t *testing.T) {
	parts := toGeminiParts(Message{Role: RoleUser, Content: "hello"})
	assert.Equal(t, []genai.Part{genai.Text("hello")}, parts)

	parts = toGeminiParts(Message{Role: RoleAssistant, ToolCalls: []*tools.ToolCall{{
		Function: tools.ToolCallFunction{Name: "get_weather", Arguments: `{"location":"Kharagpur"}`},
	}}})
	require.Len(t, parts, 1)
	call, ok := parts[0].(genai.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "get_weather", call.Name)
	assert.Equal(t, "Kharagpur", call.Args["location"])

	parts = toGeminiParts(Message{Role: RoleTool, Name: "get_weather", Content: "Sunny"})
	require.Len(t, parts, 1)
	fr, ok := parts[0].(genai.FunctionResponse)
	require.True(t, ok)
	assert.Equal(t, "get_weather", fr.Name)
	assert.Equal(t, "Sunny", fr.Response["result"])
}

func TestToGeminiContentHistory(t *testing.T) {
	history := toGeminiContentHistory([]Message{
		{Role: RoleSystem, Content: "be nice"},
		{Role: RoleUser, Content: "weather?"},
		{Role: RoleAssistant, Content: "sure"},
	})
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
}

func TestParseGeminiResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.FunctionCall{Name: "get_weather", Args: map[string]any{"location": "Kharagpur"}},
			}},
		}},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 12, CandidatesTokenCount: 3, TotalTokenCount: 15},
	}
	result, err := parseGeminiResponse(resp)
	require.NoError(t, err)
	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "get_weather", result.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"location":"Kharagpur"}`, result.ToolCalls[0].Function.Arguments)
	assert.Equal(t, 15, result.Usage.TotalTokens)

	resp = &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(" Hello "), genai.Text("there ")}},
		}},
	}
	result, err = parseGeminiResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "Hello there", result.Content)
	assert.Empty(t, result.ToolCalls)

	_, err = parseGeminiResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)
}

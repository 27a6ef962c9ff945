// In file: internal/llm/gemini_client.go
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/dileep-u-k/taskmaster-agent/internal/tools"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient is the client for interacting with Google's Gemini models.
// A fresh GenerativeModel is built per call, so concurrent requests never
// share generation settings.
type GeminiClient struct {
	client  *genai.Client
	modelID string
}

var _ LLMClient = (*GeminiClient)(nil)

func NewGeminiClient(ctx context.Context, apiKey, modelID string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key cannot be empty")
	}
	if modelID == "" {
		modelID = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelID: modelID}, nil
}

// Close releases the underlying gRPC connection.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// ListModels returns the names of every model visible to the API key.
func (c *GeminiClient) ListModels(ctx context.Context) ([]*genai.ModelInfo, error) {
	var models []*genai.ModelInfo
	it := c.client.ListModels(ctx)
	for {
		m, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list Gemini models: %w", err)
		}
		models = append(models, m)
	}
	return models, nil
}

// Generate performs a standard, blocking request to the Gemini API.
func (c *GeminiClient) Generate(
	ctx context.Context,
	messages []Message,
	config *GenerationConfig,
	availableTools []tools.Tool,
) (*GenerationResult, error) {
	if len(messages) == 0 {
		return nil, errors.New("gemini: no messages to send")
	}
	model := c.newModel(config, availableTools)
	chat := model.StartChat()
	chat.History = toGeminiContentHistory(messages[:len(messages)-1])

	resp, err := chat.SendMessage(ctx, toGeminiParts(messages[len(messages)-1])...)
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return parseGeminiResponse(resp)
}

// newModel applies per-request settings using the SDK's setter methods.
func (c *GeminiClient) newModel(config *GenerationConfig, availableTools []tools.Tool) *genai.GenerativeModel {
	modelID := c.modelID
	if config != nil && config.Model != "" {
		modelID = config.Model
	}
	model := c.client.GenerativeModel(modelID)
	model.SetMaxOutputTokens(defaultMaxOutputTokens)

	if config != nil {
		if config.Temperature != nil {
			model.SetTemperature(*config.Temperature)
		}
		if config.TopP != nil {
			model.SetTopP(*config.TopP)
		}
		if config.TopK != nil {
			model.SetTopK(*config.TopK)
		}
		if config.MaxTokens > 0 {
			model.SetMaxOutputTokens(int32(config.MaxTokens))
		}
		if config.SystemInstruction != "" {
			model.SystemInstruction = genai.NewUserContent(genai.Text(config.SystemInstruction))
		}
	}

	if len(availableTools) > 0 {
		model.Tools = toGeminiTools(availableTools)
	}
	return model
}

// toGeminiTools converts our internal tool definitions into a single Gemini tool
// carrying one declaration per function.
func toGeminiTools(toolsToConvert []tools.Tool) []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(toolsToConvert))
	for _, t := range toolsToConvert {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Function.Name,
			Description: t.Function.Description,
			Parameters:  convertSchema(t.Function.Parameters),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// convertSchema converts our JSONSchema to the Gemini SDK's schema type.
func convertSchema(s tools.JSONSchema) *genai.Schema {
	genaiSchema := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
	}
	switch s.Type {
	case "object":
		genaiSchema.Type = genai.TypeObject
	case "string":
		genaiSchema.Type = genai.TypeString
	case "number":
		genaiSchema.Type = genai.TypeNumber
	case "integer":
		genaiSchema.Type = genai.TypeInteger
	case "boolean":
		genaiSchema.Type = genai.TypeBoolean
	}
	if s.Properties != nil {
		genaiSchema.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for k, v := range s.Properties {
			genaiSchema.Properties[k] = convertSchema(*v)
		}
	}
	return genaiSchema
}

// toGeminiContentHistory converts prior turns to Gemini contents. System
// messages are skipped; they travel as the model's SystemInstruction.
func toGeminiContentHistory(messages []Message) []*genai.Content {
	var history []*genai.Content
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			continue
		}
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: toGeminiParts(msg),
		})
	}
	return history
}

// toGeminiParts maps one message to its Gemini parts: function calls for an
// assistant turn that requested tools, a function response for a tool turn,
// plain text otherwise.
func toGeminiParts(msg Message) []genai.Part {
	switch {
	case msg.Role == RoleTool:
		return []genai.Part{genai.FunctionResponse{
			Name:     msg.Name,
			Response: map[string]any{"result": msg.Content},
		}}
	case msg.Role == RoleAssistant && len(msg.ToolCalls) > 0:
		var parts []genai.Part
		if msg.Content != "" {
			parts = append(parts, genai.Text(msg.Content))
		}
		for _, tc := range msg.ToolCalls {
			args := map[string]any{}
			if tc.Function.Arguments != "" {
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
					log.Printf("Warning: could not unmarshal tool call args for history: %v", err)
				}
			}
			parts = append(parts, genai.FunctionCall{Name: tc.Function.Name, Args: args})
		}
		return parts
	default:
		return []genai.Part{genai.Text(msg.Content)}
	}
}

// parseGeminiResponse converts a Gemini API response into our internal GenerationResult.
func parseGeminiResponse(resp *genai.GenerateContentResponse) (*GenerationResult, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("no content returned from Gemini")
	}

	candidate := resp.Candidates[0]
	var contentBuilder strings.Builder
	var toolCalls []*tools.ToolCall

	for i, part := range candidate.Content.Parts {
		switch v := part.(type) {
		case genai.Text:
			contentBuilder.WriteString(string(v))
		case genai.FunctionCall:
			args, err := json.Marshal(v.Args)
			if err != nil {
				return nil, fmt.Errorf("could not marshal Gemini tool call args: %w", err)
			}
			toolCalls = append(toolCalls, &tools.ToolCall{
				ID:   fmt.Sprintf("gemini-toolcall-%s-%d", v.Name, i),
				Type: tools.ToolTypeFunction,
				Function: tools.ToolCallFunction{
					Name:      v.Name,
					Arguments: string(args),
				},
			})
		}
	}

	result := &GenerationResult{
		Content:   strings.TrimSpace(contentBuilder.String()),
		ToolCalls: toolCalls,
	}
	if resp.UsageMetadata != nil {
		result.Usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		result.Usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		result.Usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}
	return result, nil
}

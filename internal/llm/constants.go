// In file: internal/llm/constants.go
package llm

import "time"

// Defaults shared by the provider clients. The generation settings mirror the
// values the agent has always been tuned with.
const (
	defaultTimeout         = 60 * time.Second
	defaultMaxOutputTokens = 2048

	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

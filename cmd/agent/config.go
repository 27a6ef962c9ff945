// In file: cmd/agent/config.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dileep-u-k/taskmaster-agent/internal/llm"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	providerGemini = "gemini"
	providerOpenAI = "openai"

	defaultPort       = "8000"
	defaultConfigFile = "config.yaml"
)

// AgentConfig is the tunable part of the configuration, read from config.yaml.
// Every field is optional.
type AgentConfig struct {
	Model           string   `yaml:"model"`
	Temperature     *float32 `yaml:"temperature"`
	TopP            *float32 `yaml:"top_p"`
	TopK            *int32   `yaml:"top_k"`
	MaxOutputTokens int      `yaml:"max_output_tokens"`
	SystemPrompt    string   `yaml:"system_prompt"`
	IncludeDebug    *bool    `yaml:"include_debug"`
	OpenAIBaseURL   string   `yaml:"openai_base_url"`
	Weather         struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"weather"`
}

// AppConfig holds all configuration for the agent, loaded from the environment and config files.
type AppConfig struct {
	Provider      string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	WeatherAPIKey string
	Port          string
	RedisAddr     string
	Agent         AgentConfig
}

// LLMAPIKey returns the credential of the selected provider.
func (c *AppConfig) LLMAPIKey() string {
	if c.Provider == providerOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// LoadConfig loads configuration from a .env file, environment variables, and config.yaml.
func LoadConfig() (*AppConfig, error) {
	// In containers (GIN_MODE=release) the environment is provided directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	cfg := &AppConfig{
		Provider:      strings.ToLower(getEnv("LLM_PROVIDER", providerGemini)),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		WeatherAPIKey: os.Getenv("OPENWEATHERMAP_API_KEY"),
		Port:          getEnv("PORT", defaultPort),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
	}

	switch cfg.Provider {
	case providerGemini, providerOpenAI:
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q (want %q or %q)", cfg.Provider, providerGemini, providerOpenAI)
	}
	if cfg.LLMAPIKey() == "" || cfg.WeatherAPIKey == "" {
		return nil, fmt.Errorf("API keys for %s and OpenWeatherMap must be set", cfg.Provider)
	}

	agentCfg, err := loadAgentConfig(getEnv("CONFIG_FILE", defaultConfigFile))
	if err != nil {
		return nil, err
	}
	cfg.Agent = *agentCfg
	cfg.applyDefaults()
	return cfg, nil
}

// loadAgentConfig parses the YAML file at path. A missing file yields an empty config.
func loadAgentConfig(path string) (*AgentConfig, error) {
	agentCfg := &AgentConfig{}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("No %s found, using default agent settings.", path)
		return agentCfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read agent config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, agentCfg); err != nil {
		return nil, fmt.Errorf("failed to parse agent config %s: %w", path, err)
	}
	return agentCfg, nil
}

// applyDefaults fills unset generation settings with the values the agent was tuned with.
func (c *AppConfig) applyDefaults() {
	a := &c.Agent
	if a.Model == "" {
		a.Model = llm.DefaultGeminiModel
		if c.Provider == providerOpenAI {
			a.Model = llm.DefaultOpenAIModel
		}
	}
	if a.Temperature == nil {
		a.Temperature = ptr(float32(0.6))
	}
	if a.TopP == nil {
		a.TopP = ptr(float32(1))
	}
	if a.TopK == nil {
		a.TopK = ptr(int32(1))
	}
	if a.MaxOutputTokens <= 0 {
		a.MaxOutputTokens = 2048
	}
	if a.IncludeDebug == nil {
		a.IncludeDebug = ptr(true)
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func ptr[T any](v T) *T { return &v }

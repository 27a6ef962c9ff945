package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T, configFile string) {
	t.Helper()
	t.Setenv("GIN_MODE", "release") // skip .env loading
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENWEATHERMAP_API_KEY", "owm-key")
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("CONFIG_FILE", configFile)
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, providerGemini, cfg.Provider)
	assert.Equal(t, "gemini-key", cfg.LLMAPIKey())
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.Agent.Model)
	assert.InDelta(t, 0.6, *cfg.Agent.Temperature, 0.0001)
	assert.Equal(t, int32(1), *cfg.Agent.TopK)
	assert.Equal(t, 2048, cfg.Agent.MaxOutputTokens)
	assert.True(t, *cfg.Agent.IncludeDebug)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
model: gemini-2.0-flash
temperature: 0.2
include_debug: false
weather:
  base_url: http://localhost:9999
  timeout: 3s
`), 0o644))
	setBaseEnv(t, path)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", cfg.Agent.Model)
	assert.InDelta(t, 0.2, *cfg.Agent.Temperature, 0.0001)
	assert.False(t, *cfg.Agent.IncludeDebug)
	assert.Equal(t, "http://localhost:9999", cfg.Agent.Weather.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Agent.Weather.Timeout)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing weather key", func(t *testing.T) {
		setBaseEnv(t, "")
		t.Setenv("OPENWEATHERMAP_API_KEY", "")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("missing key for selected provider", func(t *testing.T) {
		setBaseEnv(t, "")
		t.Setenv("LLM_PROVIDER", "openai")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		setBaseEnv(t, "")
		t.Setenv("LLM_PROVIDER", "llama")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("model: [unterminated"), 0o644))
		setBaseEnv(t, path)
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestLoadConfigOpenAI(t *testing.T) {
	setBaseEnv(t, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, providerOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.LLMAPIKey())
	assert.Equal(t, "gpt-4o-mini", cfg.Agent.Model)
}

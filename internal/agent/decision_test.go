package agent

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dileep-u-k/taskmaster-agent/internal/llm"
	"github.com/dileep-u-k/taskmaster-agent/internal/tools"
	"github.com/dileep-u-k/taskmaster-agent/internal/weather"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	d, err := decide(&llm.GenerationResult{Content: "Paris is the capital of France."})
	require.NoError(t, err)
	assert.Equal(t, DirectAnswer{Text: "Paris is the capital of France."}, d)

	d, err = decide(&llm.GenerationResult{ToolCalls: []*tools.ToolCall{
		{ID: "a", Function: tools.ToolCallFunction{Name: "get_weather", Arguments: `{"location":" London "}`}},
		{ID: "b", Function: tools.ToolCallFunction{Name: "get_weather", Arguments: `{"location":"Paris"}`}},
	}})
	require.NoError(t, err)
	call, ok := d.(ToolCallRequest)
	require.True(t, ok)
	assert.Equal(t, "a", call.ID)
	assert.Equal(t, "London", call.Location())

	d, err = decide(&llm.GenerationResult{ToolCalls: []*tools.ToolCall{
		{Function: tools.ToolCallFunction{Name: "get_weather"}},
	}})
	require.NoError(t, err)
	assert.Equal(t, "", d.(ToolCallRequest).Location())

	_, err = decide(&llm.GenerationResult{})
	assert.Error(t, err)

	_, err = decide(&llm.GenerationResult{ToolCalls: []*tools.ToolCall{
		{Function: tools.ToolCallFunction{Name: "get_weather", Arguments: `[1,2`}},
	}})
	assert.Error(t, err)
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", newError(KindLocationNotFound, "nope", nil))
	assert.Equal(t, KindLocationNotFound, KindOf(wrapped))
	assert.Equal(t, KindModelUnavailable, KindOf(errors.New("boom")))
	assert.Equal(t, "InvalidCredentials", KindInvalidCredentials.String())
}

func TestClassifyWeatherError(t *testing.T) {
	err := classifyWeatherError("Atlantis", fmt.Errorf("%w: 'Atlantis'", weather.ErrLocationNotFound))
	assert.Equal(t, KindLocationNotFound, err.Kind)
	assert.Contains(t, err.Message, "Atlantis")

	assert.Equal(t, KindInvalidCredentials, classifyWeatherError("x", weather.ErrInvalidCredentials).Kind)
	assert.Equal(t, KindProviderUnavailable, classifyWeatherError("x", weather.ErrProviderUnavailable).Kind)
}

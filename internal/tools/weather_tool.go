// In file: internal/tools/weather_tool.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dileep-u-k/taskmaster-agent/internal/weather"
)

// WeatherToolName is the function name the model must use to request a lookup.
const WeatherToolName = "get_weather"

// WeatherTool exposes a weather.Provider to the model.
type WeatherTool struct {
	provider weather.Provider
}

var _ ToolExecutor = (*WeatherTool)(nil)

func NewWeatherTool(provider weather.Provider) *WeatherTool {
	return &WeatherTool{provider: provider}
}

// Definition carries no logic; it is contract metadata for the model.
func (wt *WeatherTool) Definition() Tool {
	return NewFunctionTool(
		WeatherToolName,
		"Get the current, live weather conditions (temperature, conditions, humidity) for a named city or place. "+
			"Use this whenever answering requires real-time weather data.",
		JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				"location": {
					Type:        "string",
					Description: "The city name, optionally with country, e.g. London or Kharagpur, India",
				},
			},
			Required: []string{"location"},
		},
	)
}

// Execute looks up the weather for the "location" argument. Provider errors
// are returned as-is so they keep their weather.Err* identity.
func (wt *WeatherTool) Execute(ctx context.Context, arguments string) (*Result, error) {
	var args struct {
		Location string `json:"location"`
	}
	if strings.TrimSpace(arguments) != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, fmt.Errorf("invalid arguments for %s: %w", WeatherToolName, err)
		}
	}
	if strings.TrimSpace(args.Location) == "" {
		return nil, fmt.Errorf("%w: location", ErrMissingArgument)
	}

	reading, err := wt.provider.Current(ctx, args.Location)
	if err != nil {
		return nil, err
	}
	return &Result{Content: reading.Summary(), Data: reading}, nil
}

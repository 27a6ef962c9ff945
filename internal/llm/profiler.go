// In file: internal/llm/profiler.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/dileep-u-k/taskmaster-agent/internal/api"
	"github.com/dileep-u-k/taskmaster-agent/internal/tools"

	"github.com/redis/go-redis/v9"
)

// ErrProfileNotFound is returned when a model has never been called.
var ErrProfileNotFound = errors.New("model profile not found")

// ModelProfile is the running usage record of one model. It is telemetry only;
// no prompt, answer or weather reading is ever stored.
type ModelProfile struct {
	ModelID           string    `json:"model_id"`
	Status            string    `json:"status"`
	AvgLatencyMS      int64     `json:"avg_latency_ms"`
	ErrorRate         float64   `json:"error_rate"`
	TotalSuccesses    int64     `json:"total_successes"`
	TotalFailures     int64     `json:"total_failures"`
	TotalToolCalls    int64     `json:"total_tool_calls"`
	TotalInputTokens  int64     `json:"total_input_tokens"`
	TotalOutputTokens int64     `json:"total_output_tokens"`
	LastCallAt        time.Time `json:"last_call_at"`
}

// Profiler keeps ModelProfiles in Redis hashes under "profile:<model>".
type Profiler struct {
	rdb *redis.Client
}

func NewProfiler(rdb *redis.Client) *Profiler {
	return &Profiler{rdb: rdb}
}

func (p *Profiler) getProfileKey(modelID string) string {
	return fmt.Sprintf("profile:%s", modelID)
}

// GetProfile reads a model's profile.
func (p *Profiler) GetProfile(ctx context.Context, modelID string) (*ModelProfile, error) {
	profileData, err := p.rdb.HGetAll(ctx, p.getProfileKey(modelID)).Result()
	if err != nil {
		return nil, err
	}
	if len(profileData) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, modelID)
	}

	profile := &ModelProfile{ModelID: modelID, Status: profileData["status"]}
	profile.AvgLatencyMS, _ = strconv.ParseInt(profileData["avg_latency_ms"], 10, 64)
	profile.TotalSuccesses, _ = strconv.ParseInt(profileData["total_successes"], 10, 64)
	profile.TotalFailures, _ = strconv.ParseInt(profileData["total_failures"], 10, 64)
	profile.TotalToolCalls, _ = strconv.ParseInt(profileData["total_tool_calls"], 10, 64)
	profile.TotalInputTokens, _ = strconv.ParseInt(profileData["total_input_tokens"], 10, 64)
	profile.TotalOutputTokens, _ = strconv.ParseInt(profileData["total_output_tokens"], 10, 64)
	profile.LastCallAt, _ = time.Parse(time.RFC3339Nano, profileData["last_call_at"])
	if total := profile.TotalSuccesses + profile.TotalFailures; total > 0 {
		profile.ErrorRate = float64(profile.TotalFailures) / float64(total)
	}
	return profile, nil
}

// UpdateProfileOnSuccess folds one successful call into the profile.
func (p *Profiler) UpdateProfileOnSuccess(ctx context.Context, modelID string, latency time.Duration, usage api.Usage, toolCalls int) {
	key := p.getProfileKey(modelID)
	const alpha = 0.1

	err := p.rdb.Watch(ctx, func(tx *redis.Tx) error {
		currentLatencyStr, err := tx.HGet(ctx, key, "avg_latency_ms").Result()
		if err != nil && err != redis.Nil {
			return err
		}
		newLatency := latency.Milliseconds()
		if currentLatency, perr := strconv.ParseInt(currentLatencyStr, 10, 64); perr == nil {
			newLatency = int64((alpha * float64(latency.Milliseconds())) + ((1.0 - alpha) * float64(currentLatency)))
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "avg_latency_ms", newLatency)
			return nil
		})
		return err
	}, key)
	if err != nil {
		log.Printf("Error updating latency for %s: %v", modelID, err)
	}

	pipe := p.rdb.Pipeline()
	pipe.HIncrBy(ctx, key, "total_successes", 1)
	pipe.HIncrBy(ctx, key, "total_tool_calls", int64(toolCalls))
	pipe.HIncrBy(ctx, key, "total_input_tokens", int64(usage.PromptTokens))
	pipe.HIncrBy(ctx, key, "total_output_tokens", int64(usage.CompletionTokens))
	pipe.HSet(ctx, key, "status", "online", "last_call_at", time.Now().Format(time.RFC3339Nano))
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error in success update pipeline for %s: %v", modelID, err)
	}
}

// UpdateProfileOnFailure records a failed call and marks the model degraded.
func (p *Profiler) UpdateProfileOnFailure(ctx context.Context, modelID string) {
	key := p.getProfileKey(modelID)
	pipe := p.rdb.Pipeline()
	pipe.HIncrBy(ctx, key, "total_failures", 1)
	pipe.HSet(ctx, key, "status", "degraded", "last_call_at", time.Now().Format(time.RFC3339Nano))
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Error in failure update pipeline for %s: %v", modelID, err)
	}
}

// ProfiledClient decorates an LLMClient so every call updates the model's profile.
type ProfiledClient struct {
	next     LLMClient
	profiler *Profiler
	modelID  string
}

var _ LLMClient = (*ProfiledClient)(nil)

func NewProfiledClient(next LLMClient, profiler *Profiler, modelID string) *ProfiledClient {
	return &ProfiledClient{next: next, profiler: profiler, modelID: modelID}
}

func (c *ProfiledClient) Generate(ctx context.Context, messages []Message, config *GenerationConfig, availableTools []tools.Tool) (*GenerationResult, error) {
	start := time.Now()
	result, err := c.next.Generate(ctx, messages, config, availableTools)
	// Profile writes must not be cut short by a cancelled request.
	bg := context.WithoutCancel(ctx)
	if err != nil {
		c.profiler.UpdateProfileOnFailure(bg, c.modelID)
		return nil, err
	}
	c.profiler.UpdateProfileOnSuccess(bg, c.modelID, time.Since(start), result.Usage, len(result.ToolCalls))
	return result, nil
}

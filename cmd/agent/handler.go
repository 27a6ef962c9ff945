// In file: cmd/agent/handler.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dileep-u-k/taskmaster-agent/internal/agent"
	"github.com/dileep-u-k/taskmaster-agent/internal/api"
	"github.com/dileep-u-k/taskmaster-agent/internal/llm"
	"github.com/dileep-u-k/taskmaster-agent/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// Orchestrator is the part of the agent the handler depends on.
type Orchestrator interface {
	Handle(ctx context.Context, query string) (*api.AgentResponse, error)
}

// AgentHandler is the only place where agent failure kinds become HTTP statuses.
type AgentHandler struct {
	orchestrator Orchestrator
	profiler     *llm.Profiler
	modelID      string
}

// NewAgentHandler wires the handler. profiler may be nil when REDIS_ADDR is unset.
func NewAgentHandler(orchestrator Orchestrator, profiler *llm.Profiler, modelID string) *AgentHandler {
	return &AgentHandler{orchestrator: orchestrator, profiler: profiler, modelID: modelID}
}

// RegisterRoutes mounts every endpoint on engine.
func (h *AgentHandler) RegisterRoutes(engine *gin.Engine) {
	engine.Use(requestID())
	engine.POST("/agent", h.HandleAgent)
	engine.GET("/healthz", h.HandleHealth)
	engine.GET("/models/:model/profile", h.HandleProfile)
}

// HandleAgent validates the query, runs the orchestrator and maps the outcome.
func (h *AgentHandler) HandleAgent(c *gin.Context) {
	startTime := time.Now()
	var req api.AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		h.fail(c, &agent.Error{Kind: agent.KindInvalidRequest, Message: "Query cannot be empty.", Err: err}, nil)
		return
	}

	log.Printf("--- New request %s (Query: '%.30s...') ---", c.GetString(requestIDHeader), req.Query)

	resp, err := h.orchestrator.Handle(c.Request.Context(), req.Query)
	if err != nil {
		h.fail(c, err, resp)
		return
	}

	log.Printf("✅ Request %s answered in %s (tool_used=%v)", c.GetString(requestIDHeader), time.Since(startTime), resp.ToolUsed)
	c.JSON(http.StatusOK, resp)
}

// fail writes an error body; partial carries the orchestrator's explanation when it produced one.
func (h *AgentHandler) fail(c *gin.Context, err error, partial *api.AgentResponse) {
	kind := agent.KindOf(err)
	status := statusForKind(kind)

	message := "An unexpected error occurred."
	var agentErr *agent.Error
	if errors.As(err, &agentErr) {
		message = agentErr.Message
	}
	log.Printf("❌ Request %s failed with %s (%d): %v", c.GetString(requestIDHeader), kind, status, err)

	body := api.ErrorResponse{Error: message, RequestID: c.GetString(requestIDHeader)}
	if partial != nil {
		body.Response = partial.Response
		body.ToolUsed = partial.ToolUsed
	}
	c.JSON(status, body)
}

func statusForKind(kind agent.Kind) int {
	switch kind {
	case agent.KindInvalidRequest:
		return http.StatusBadRequest
	case agent.KindLocationNotFound:
		return http.StatusNotFound
	case agent.KindProviderUnavailable:
		return http.StatusBadGateway
	case agent.KindModelUnavailable:
		return http.StatusServiceUnavailable
	default:
		// InvalidCredentials is a server misconfiguration, not the caller's fault.
		return http.StatusInternalServerError
	}
}

func (h *AgentHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"model":   h.modelID,
		"version": version.Get(),
	})
}

// HandleProfile reports the usage profile of a model.
func (h *AgentHandler) HandleProfile(c *gin.Context) {
	if h.profiler == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Model profiling is disabled."})
		return
	}
	profile, err := h.profiler.GetProfile(c.Request.Context(), c.Param("model"))
	switch {
	case errors.Is(err, llm.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case err != nil:
		log.Printf("WARNING: Failed to read profile: %v", err)
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: "Profile store is unavailable."})
	default:
		c.JSON(http.StatusOK, profile)
	}
}

// requestID tags every request with an ID, reusing the caller's when present.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

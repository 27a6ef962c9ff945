// In file: cmd/agent/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dileep-u-k/taskmaster-agent/internal/agent"
	"github.com/dileep-u-k/taskmaster-agent/internal/llm"
	"github.com/dileep-u-k/taskmaster-agent/internal/tools"
	"github.com/dileep-u-k/taskmaster-agent/internal/version"
	"github.com/dileep-u-k/taskmaster-agent/internal/weather"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// main is the composition root: it loads configuration, builds every client
// once, injects them, and starts the server.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 Starting TaskMaster Agent | Version: %s", version.Get())

	// 1. LOAD CONFIGURATION
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Printf("✅ Configuration loaded (provider=%s, model=%s).", cfg.Provider, cfg.Agent.Model)

	// 2. INITIALIZE SERVICES
	ctx := context.Background()
	llmClient, closeLLM, err := initializeLLMClient(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}
	defer closeLLM()

	var profiler *llm.Profiler
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatalf("❌ FATAL: Could not connect to Redis: %v", err)
		}
		defer rdb.Close()
		profiler = llm.NewProfiler(rdb)
		llmClient = llm.NewProfiledClient(llmClient, profiler, cfg.Agent.Model)
		log.Println("✅ Model profiling enabled.")
	}

	toolManager, err := initializeToolManager(cfg)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	orchestrator := agent.NewOrchestrator(llmClient, toolManager, agent.Options{
		Model:        cfg.Agent.Model,
		SystemPrompt: cfg.Agent.SystemPrompt,
		Temperature:  cfg.Agent.Temperature,
		TopP:         cfg.Agent.TopP,
		TopK:         cfg.Agent.TopK,
		MaxTokens:    cfg.Agent.MaxOutputTokens,
		IncludeDebug: *cfg.Agent.IncludeDebug,
	})
	handler := NewAgentHandler(orchestrator, profiler, cfg.Agent.Model)
	log.Println("✅ All services initialized.")

	// 3. SETUP AND RUN THE WEB SERVER
	gin.SetMode(os.Getenv("GIN_MODE"))
	engine := gin.Default()
	handler.RegisterRoutes(engine)

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: engine}
	runServerWithGracefulShutdown(srv)
}

// initializeLLMClient creates the client for the configured provider. The
// returned func releases its resources.
func initializeLLMClient(ctx context.Context, cfg *AppConfig) (llm.LLMClient, func(), error) {
	switch cfg.Provider {
	case providerOpenAI:
		client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.Agent.OpenAIBaseURL, cfg.Agent.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return client, func() {}, nil
	default:
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.Agent.Model)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {
			if err := client.Close(); err != nil {
				log.Printf("WARNING: Failed to close Gemini client: %v", err)
			}
		}, nil
	}
}

// initializeToolManager creates and registers the weather tool.
func initializeToolManager(cfg *AppConfig) (*tools.ToolManager, error) {
	weatherClient, err := weather.NewClient(weather.Config{
		APIKey:  cfg.WeatherAPIKey,
		BaseURL: cfg.Agent.Weather.BaseURL,
		Timeout: cfg.Agent.Weather.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create weather client: %w", err)
	}

	manager := tools.NewToolManager()
	manager.Register(tools.NewWeatherTool(weatherClient))
	log.Printf("✅ Tool Manager initialized with %d tools.", manager.ToolCount())
	return manager, nil
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Agent is listening on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown failed: %v", err)
		return
	}
	log.Println("👋 Server exited gracefully.")
}

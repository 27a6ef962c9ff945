// In file: cmd/listmodels/main.go

// Command listmodels prints the Gemini models available to GEMINI_API_KEY, so
// a valid name can be put in config.yaml before starting the agent.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"time"

	"github.com/dileep-u-k/taskmaster-agent/internal/llm"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	onlyGenerate := flag.Bool("generate-only", true, "only list models that support generateContent")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Relying on environment variables.")
	}
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatalf("❌ GEMINI_API_KEY is not set.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := llm.NewGeminiClient(ctx, apiKey, "")
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer client.Close()

	models, err := client.ListModels(ctx)
	if err != nil {
		log.Fatalf("❌ %v\nThis might be an API key error or a connection issue.", err)
	}

	fmt.Println("--- Available Models for your API Key ---")
	for _, m := range models {
		if *onlyGenerate && !slices.Contains(m.SupportedGenerationMethods, "generateContent") {
			continue
		}
		fmt.Printf("Model name: %s (%s)\n", m.Name, m.DisplayName)
	}
	fmt.Println("------------------------------------------")
	fmt.Println("Put one of these names in the 'model' field of config.yaml.")
}

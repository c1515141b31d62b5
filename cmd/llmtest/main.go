// Command llmtest sends one sample symptom check to the configured provider
// and prints the raw text next to the rendered section titles.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"

	"github.com/wolfman30/care-portal/cmd/mainconfig"
	"github.com/wolfman30/care-portal/internal/analysis"
	appconfig "github.com/wolfman30/care-portal/internal/config"
	"github.com/wolfman30/care-portal/internal/symptoms"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := appconfig.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.AnalysisTimeout)
	defer cancel()

	prompt, err := symptoms.NewPromptBuilder().TextPrompt(symptoms.CheckRequest{
		Symptoms: "Dry cough and mild fever for three days",
		Age:      "34",
		Gender:   "female",
		Duration: "3 days",
		Severity: "mild",
	})
	if err != nil {
		log.Fatalf("build prompt: %v", err)
	}

	client, model, err := newClient(ctx, cfg)
	if err != nil {
		log.Fatalf("create %s client: %v", cfg.LLMProvider, err)
	}

	fmt.Printf("Provider: %s  Model: %s\n", cfg.LLMProvider, model)
	start := time.Now()
	resp, err := client.Complete(ctx, symptoms.LLMRequest{
		Model:       model,
		Messages:    []symptoms.ChatMessage{{Role: symptoms.ChatRoleUser, Content: prompt}},
		MaxTokens:   1024,
		Temperature: -1,
	})
	if err != nil {
		fmt.Printf("FAIL %s error after %v: %v\n", cfg.LLMProvider, time.Since(start).Round(time.Millisecond), err)
		os.Exit(1)
	}
	fmt.Printf("OK (%v) tokens in=%d out=%d stop=%s\n\n", time.Since(start).Round(time.Millisecond),
		resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.StopReason)
	fmt.Println(resp.Text)

	fmt.Println("\nRendered sections:")
	res := analysis.NewRenderer(analysis.SymptomVariant()).Render(analysis.Input{
		Report: analysis.Normalize(resp.Text, analysis.SymptomTitles),
	})
	for _, b := range res.Sections() {
		fmt.Printf("  - %s (%s)\n", b.Title, b.ColorClass)
	}
	if len(res.Sections()) == 0 {
		fmt.Println("  none: the model ignored the requested section titles")
	}
}

func newClient(ctx context.Context, cfg *appconfig.Config) (symptoms.LLMClient, string, error) {
	switch cfg.LLMProvider {
	case "bedrock":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		return symptoms.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg)), cfg.BedrockModelID, nil
	default:
		client, err := symptoms.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiTextModel)
		return client, cfg.GeminiTextModel, err
	}
}

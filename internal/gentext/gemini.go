package gentext

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// GeminiGenerator drafts descriptions through the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a generator for the given API key and model
// (defaultModel when empty).
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key required")
	}
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Describe implements Generator.
func (g *GeminiGenerator) Describe(ctx context.Context, req Request) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", fmt.Errorf("name required")
	}
	prompt := buildPrompt(name, req.Details)
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

func buildPrompt(name string, details []string) string {
	var b strings.Builder
	b.WriteString("Write a concise two-sentence portfolio description for a project named ")
	b.WriteString(name)
	b.WriteString(".")
	if len(details) > 0 {
		b.WriteString(" Key details: ")
		b.WriteString(strings.Join(details, "; "))
		b.WriteString(".")
	}
	b.WriteString(" Plain text only, no markdown.")
	return b.String()
}

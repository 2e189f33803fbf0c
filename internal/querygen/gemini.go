// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package querygen

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// DefaultModel is the Gemini model used when the config names none.
const DefaultModel = "gemini-2.0-flash"

// GeminiBackend calls the Gemini API through the official SDK. The key is
// consumed here at construction; the rest of the pipeline never sees it.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend builds a Gemini backend from AI configuration. An empty
// model falls back to DefaultModel.
func NewGeminiBackend(ctx context.Context, cfg types.AIConfig) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiBackend{client: client, model: model}, nil
}

// Generate sends the prompt and returns the model's text response. An
// answer with no text content (blocked or empty) is an error; the caller
// maps it to an upstream failure.
func (b *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	model := b.client.GenerativeModel(b.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "", fmt.Errorf("model returned no text content")
}

// Close releases the underlying client connection.
func (b *GeminiBackend) Close() error { return b.client.Close() }

package translator

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the Gemini model used for translation.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider translates via the Gemini API. It is the fallback backend
// for keys that cannot reach DeepSeek.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini translation backend.
func NewGeminiProvider(config *ProviderConfig) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &GeminiProvider{client: client, model: model}, nil
}

// Translate sends one translation request and returns the model output.
func (p *GeminiProvider) Translate(ctx context.Context, text string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text(fmt.Sprintf(translationPrompt, text)), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return out, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

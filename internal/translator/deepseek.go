package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// DefaultDeepSeekBaseURL is the OpenAI-compatible DeepSeek endpoint.
const DefaultDeepSeekBaseURL = "https://api.deepseek.com/v1"

// DefaultDeepSeekModel is the chat model used for translation.
const DefaultDeepSeekModel = "deepseek-chat"

// DeepSeekProvider translates via the DeepSeek chat completion API, which
// speaks the OpenAI wire protocol.
type DeepSeekProvider struct {
	client *openai.Client
	model  string
}

// NewDeepSeekProvider creates a DeepSeek translation backend.
func NewDeepSeekProvider(config *ProviderConfig) (*DeepSeekProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("DeepSeek API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = DefaultDeepSeekBaseURL
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	model := config.Model
	if model == "" {
		model = DefaultDeepSeekModel
	}

	return &DeepSeekProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Translate sends one translation request and returns the model output.
func (p *DeepSeekProvider) Translate(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(translationPrompt, text),
			},
		},
		Temperature: 0.1,
		MaxTokens:   2000,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("DeepSeek API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Name returns the provider name.
func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}

package translator

import (
	"context"
	"fmt"
)

// Provider is a remote translation backend. Translate returns the Chinese
// rendering of the given English counseling text.
type Provider interface {
	Translate(ctx context.Context, text string) (string, error)
	Name() string
}

// translationPrompt instructs the model to translate the counseling
// dialogue faithfully and return nothing but the translation.
const translationPrompt = "请将以下英文心理健康咨询对话翻译成中文，保持专业性和准确性，不要添加任何额外内容，只返回翻译结果：\n\n%s"

// ProviderConfig selects and configures a translation backend.
type ProviderConfig struct {
	// Provider is "deepseek" or "gemini"
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

// NewProvider creates the configured translation backend.
func NewProvider(config *ProviderConfig) (Provider, error) {
	switch config.Provider {
	case "deepseek", "":
		return NewDeepSeekProvider(config)
	case "gemini":
		return NewGeminiProvider(config)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}
}

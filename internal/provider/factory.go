package provider

import (
	"context"
	"fmt"
	"strings"

	"pageforge-backend/internal/config"
)

var supportedProviders = []string{"groq", "openai", "ollama", "local-default", "doubao", "qwen"}

// New 根据标识符选择具体后端，空标识符与 local-default 均回退到本地 ollama
func New(ctx context.Context, cfg *config.Config, name string) (Provider, error) {
	if name == "" {
		name = cfg.Provider.Default
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ollama", "local-default":
		return NewOllama(cfg.Provider.Ollama)
	case "groq":
		return NewGroq(cfg.Provider.Groq)
	case "openai":
		return NewOpenAI(cfg.Provider.OpenAI)
	case "doubao":
		return NewDoubao(ctx, cfg.Provider.Doubao)
	case "qwen":
		return NewQwen(ctx, cfg.Provider.Qwen)
	default:
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnknownProvider, name, strings.Join(supportedProviders, ", "))
	}
}

package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pageforge-backend/internal/provider"
)

// ErrDescription 描述生成失败。描述会原样展示给最终用户，没有安全默认值可用。
var ErrDescription = errors.New("error generating description")

const descriptionSystemPrompt = `You are a web development assistant. Describe the project that will be created based on the user's request.

Provide a clear, concise description (2-3 sentences) of what the webpage will include and its key features. Focus on the UI/UX aspects and design elements.`

func GenerateDescription(ctx context.Context, p provider.Provider, prompt string) (string, error) {
	resp, err := p.Complete(ctx, []provider.Message{
		provider.SystemMessage(descriptionSystemPrompt),
		provider.UserMessage(prompt),
	}, provider.Options{
		Temperature:    0.7,
		MaxOutputUnits: 300,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDescription, err)
	}

	return strings.TrimSpace(resp.Text), nil
}

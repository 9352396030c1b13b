package provider

import (
	"context"
	"fmt"

	"pageforge-backend/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// openaiCompat 覆盖所有 OpenAI 协议兼容的云端后端（openai/groq）
type openaiCompat struct {
	client *openai.Client
	name   string
	model  string
}

func NewGroq(cfg config.GroqConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: groq: GROQ_API_KEY is not set", ErrProviderInit)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	model := cfg.Model
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}

	return &openaiCompat{
		client: openai.NewClientWithConfig(clientConfig),
		name:   "groq",
		model:  model,
	}, nil
}

func NewOpenAI(cfg config.OpenAIConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai: OPENAI_API_KEY is not set", ErrProviderInit)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &openaiCompat{
		client: openai.NewClientWithConfig(clientConfig),
		name:   "openai",
		model:  model,
	}, nil
}

func (p *openaiCompat) Name() string {
	return p.name
}

func (p *openaiCompat) Complete(ctx context.Context, messages []Message, opts Options) (*Response, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertMessages(messages),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxOutputUnits,
	}
	if opts.WantJSON {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderCall, p.name, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyResponse, p.name)
	}

	return &Response{
		Text: resp.Choices[0].Message.Content,
		Usage: Usage{
			InputUnits:  resp.Usage.PromptTokens,
			OutputUnits: resp.Usage.CompletionTokens,
			TotalUnits:  resp.Usage.TotalTokens,
		},
	}, nil
}

func convertMessages(messages []Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		// 跳过空的 assistant 消息，避免部分后端报错
		if msg.Content == "" && msg.Role == RoleAssistant {
			continue
		}
		result = append(result, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return result
}

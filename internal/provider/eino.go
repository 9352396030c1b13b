package provider

import (
	"context"
	"fmt"

	"pageforge-backend/internal/config"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// einoProvider 通过 eino 编排链归一化 ark/qwen 模型到统一的 Complete 契约
type einoProvider struct {
	name     string
	runnable compose.Runnable[[]*schema.Message, *schema.Message]
}

func NewDoubao(ctx context.Context, cfg config.DoubaoConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: doubao: ARK_API_KEY is not set", ErrProviderInit)
	}

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		CustomHeader: map[string]string{
			"X-Ark-Thinking-Mode": "disable",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: doubao: %v", ErrProviderInit, err)
	}

	return newEinoProvider(ctx, "doubao", chatModel)
}

func NewQwen(ctx context.Context, cfg config.QwenConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: qwen: DASHSCOPE_API_KEY is not set", ErrProviderInit)
	}

	chatModel, err := qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   &cfg.MaxTokens,
		Temperature: &cfg.Temperature,
		TopP:        &cfg.TopP,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: qwen: %v", ErrProviderInit, err)
	}

	return newEinoProvider(ctx, "qwen", chatModel)
}

func newEinoProvider(ctx context.Context, name string, chatModel einoModel.BaseChatModel) (Provider, error) {
	chain := compose.NewChain[[]*schema.Message, *schema.Message]()
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderInit, name, err)
	}

	return &einoProvider{
		name:     name,
		runnable: runnable,
	}, nil
}

func (p *einoProvider) Name() string {
	return p.name
}

func (p *einoProvider) Complete(ctx context.Context, messages []Message, opts Options) (*Response, error) {
	out, err := p.runnable.Invoke(ctx, convertSchemaMessages(messages, opts.WantJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderCall, p.name, err)
	}

	if out == nil || out.Content == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyResponse, p.name)
	}

	resp := &Response{Text: out.Content}
	if out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		resp.Usage = Usage{
			InputUnits:  out.ResponseMeta.Usage.PromptTokens,
			OutputUnits: out.ResponseMeta.Usage.CompletionTokens,
			TotalUnits:  out.ResponseMeta.Usage.TotalTokens,
		}
	} else {
		resp.Usage = Usage{
			OutputUnits: EstimateTokens(out.Content),
			TotalUnits:  EstimateTokens(out.Content),
		}
	}

	return resp, nil
}

func convertSchemaMessages(messages []Message, wantJSON bool) []*schema.Message {
	result := make([]*schema.Message, 0, len(messages))
	for i, msg := range messages {
		content := msg.Content
		// ark/qwen 不支持原生 JSON mode，改为在 system 提示中追加格式约束
		if wantJSON && i == 0 && msg.Role == RoleSystem {
			content += "\n\nRespond with a single valid JSON object and nothing else."
		}

		switch msg.Role {
		case RoleSystem:
			result = append(result, schema.SystemMessage(content))
		case RoleAssistant:
			result = append(result, schema.AssistantMessage(content, nil))
		default:
			result = append(result, schema.UserMessage(content))
		}
	}
	return result
}

package stage

import (
	"context"

	"pageforge-backend/internal/provider"
	"pageforge-backend/pkg/logger"
)

const (
	IntentCreateWebpage = "create_webpage"
	IntentConversation  = "conversation"
	IntentIdeas         = "ideas"
)

const intentSystemPrompt = `You are an intent detection assistant. Analyze user messages and determine their intent.

Possible intents:
1. "create_webpage" - User wants to create/build a webpage/website
2. "conversation" - User is just chatting, greeting, or asking questions
3. "ideas" - User wants project ideas or suggestions

Return ONLY a valid JSON object:
{
  "intent": "create_webpage" | "conversation" | "ideas",
  "confidence": 0.0-1.0,
  "response": "Your response to the user (only if intent is conversation or ideas)"
}`

const intentFallbackReply = "I'm here to help you create webpages! Try saying something like 'create a coffee shop page' to get started."

type IntentResult struct {
	Intent     string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Response   string         `json:"response"`
	Usage      provider.Usage `json:"-"`
}

// DetectIntent 识别用户意图。调用或解析失败一律回退到 conversation，
// 不向上传播错误——为格式问题阻断整个交互得不偿失。
func DetectIntent(ctx context.Context, p provider.Provider, prompt string) IntentResult {
	fallback := IntentResult{
		Intent:     IntentConversation,
		Confidence: 0.5,
		Response:   intentFallbackReply,
	}

	resp, err := p.Complete(ctx, []provider.Message{
		provider.SystemMessage(intentSystemPrompt),
		provider.UserMessage(prompt),
	}, provider.Options{
		Temperature:    0.7,
		MaxOutputUnits: 500,
		WantJSON:       true,
	})
	if err != nil {
		logger.Warnf("intent detection call failed, falling back to conversation: %v", err)
		return fallback
	}

	var result IntentResult
	if err := decodeJSONObject(resp.Text, &result); err != nil || result.Intent == "" {
		logger.Warnf("intent detection reply unparsable, falling back to conversation: %v", err)
		fallback.Usage = resp.Usage
		return fallback
	}

	result.Usage = resp.Usage
	return result
}

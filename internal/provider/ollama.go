package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pageforge-backend/internal/config"
	"pageforge-backend/internal/utils"
	"pageforge-backend/pkg/logger"
)

// ollamaProvider 本地推理服务，走 Ollama 的 /api/chat 非流式接口
type ollamaProvider struct {
	baseURL string
	model   string
	client  *http.Client
}

type ollamaChatRequest struct {
	Model    string            `json:"model"`
	Messages []Message         `json:"messages"`
	Options  ollamaChatOptions `json:"options"`
	Format   string            `json:"format,omitempty"`
	Stream   bool              `json:"stream"`
}

type ollamaChatOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	PromptEvalCount int `json:"prompt_eval_count"`
	EvalCount       int `json:"eval_count"`
}

func NewOllama(cfg config.OllamaConfig) (Provider, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	model := cfg.Model
	if model == "" {
		model = "llama3"
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 300 * time.Second
	}

	p := &ollamaProvider{
		baseURL: baseURL,
		model:   model,
		client:  utils.NewHTTPClient(timeout),
	}

	// 连通性探测仅告警不阻断，首次真实调用时再暴露确定性错误
	probeClient := utils.NewHTTPClient(5 * time.Second)
	resp, err := probeClient.Get(baseURL + "/api/tags")
	if err != nil {
		logger.Warnf("Ollama server not available at %s, it will be tried when used: %v", baseURL, err)
		return p, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Warnf("Ollama server returned status %d, but continuing", resp.StatusCode)
	}

	return p, nil
}

func (p *ollamaProvider) Name() string {
	return "ollama"
}

func (p *ollamaProvider) Complete(ctx context.Context, messages []Message, opts Options) (*Response, error) {
	payload := ollamaChatRequest{
		Model:    p.model,
		Messages: messages,
		Options: ollamaChatOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxOutputUnits,
		},
		Stream: false,
	}
	if opts.WantJSON {
		payload.Format = "json"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: %v", ErrProviderCall, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: %v", ErrProviderCall, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama: %s", ErrProviderCall, classifyTransportError(err, p.baseURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errText, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return nil, fmt.Errorf("%w: ollama: server returned status %d: %s", ErrProviderCall, resp.StatusCode, string(errText))
	}

	var data ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: ollama: malformed response body: %v", ErrProviderCall, err)
	}

	content := strings.TrimSpace(data.Message.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: ollama", ErrEmptyResponse)
	}

	return &Response{
		Text: content,
		Usage: Usage{
			InputUnits:  data.PromptEvalCount,
			OutputUnits: data.EvalCount,
			TotalUnits:  data.PromptEvalCount + data.EvalCount,
		},
	}, nil
}

// classifyTransportError 区分超时与连接失败，便于上层给出可操作的错误提示
func classifyTransportError(err error, baseURL string) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Sprintf("request timed out, the model might be too slow or the request too large: %v", err)
	}
	return fmt.Sprintf("cannot connect to server at %s, make sure it is running: %v", baseURL, err)
}

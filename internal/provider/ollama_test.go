package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pageforge-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOllamaTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, Provider) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOllama(config.OllamaConfig{BaseURL: server.URL, Model: "llama3"})
	require.NoError(t, err)
	return server, p
}

func TestOllamaComplete(t *testing.T) {
	var gotReq ollamaChatRequest

	_, p := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}

		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":           map[string]string{"content": "  hello there  "},
			"prompt_eval_count": 12,
			"eval_count":        8,
		})
	})

	resp, err := p.Complete(context.Background(), []Message{
		SystemMessage("be brief"),
		UserMessage("hi"),
	}, Options{Temperature: 0.7, MaxOutputUnits: 500, WantJSON: true})
	require.NoError(t, err)

	assert.Equal(t, "hello there", resp.Text)
	assert.Equal(t, 12, resp.Usage.InputUnits)
	assert.Equal(t, 8, resp.Usage.OutputUnits)
	assert.Equal(t, 20, resp.Usage.TotalUnits)

	// 非流式调用，JSON 模式透传给服务端
	assert.Equal(t, "llama3", gotReq.Model)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, "json", gotReq.Format)
	assert.Equal(t, 500, gotReq.Options.NumPredict)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, RoleSystem, gotReq.Messages[0].Role)
}

func TestOllamaCompleteServerError(t *testing.T) {
	_, p := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := p.Complete(context.Background(), []Message{UserMessage("hi")}, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderCall)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestOllamaCompleteEmptyReply(t *testing.T) {
	_, p := newOllamaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"content": "   "},
		})
	})

	_, err := p.Complete(context.Background(), []Message{UserMessage("hi")}, Options{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOllamaCompleteConnectionRefused(t *testing.T) {
	p, err := NewOllama(config.OllamaConfig{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), []Message{UserMessage("hi")}, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderCall)
	assert.Contains(t, err.Error(), "cannot connect to server")
}

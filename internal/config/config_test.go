package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t, `
server:
  port: 9090
  write_timeout: 1800s
provider:
  default: "groq"
  groq:
    api_key: "gsk_test"
    model: "llama-3.3-70b-versatile"
  ollama:
    base_url: "http://localhost:11434"
generation:
  token_limit: 20000
  typing_delay: 30ms
storage:
  type: "disk"
  data_dir: "/tmp/pageforge"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 1800*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "groq", cfg.Provider.Default)
	assert.Equal(t, "gsk_test", cfg.Provider.Groq.APIKey)
	assert.Equal(t, 20000, cfg.Generation.TokenLimit)
	assert.Equal(t, 30*time.Millisecond, cfg.Generation.TypingDelay)
	assert.Equal(t, "disk", cfg.Storage.Type)
	assert.Equal(t, "/tmp/pageforge", cfg.Storage.DataDir)
}

func TestLoadDefaults(t *testing.T) {
	path := writeTestConfig(t, `
server:
  port: 8080
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.Provider.Groq.BaseURL)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Provider.Groq.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.Provider.OpenAI.Model)
	assert.Equal(t, "llama3", cfg.Provider.Ollama.Model)
	assert.Equal(t, 300*time.Second, cfg.Provider.Ollama.Timeout)
	assert.Equal(t, 30000, cfg.Generation.TokenLimit)
	assert.Equal(t, "./data", cfg.Storage.DataDir)
	assert.Equal(t, 100, cfg.Storage.CacheSize)
	assert.NotEmpty(t, cfg.Provider.Ollama.BaseURL)
}

func TestLoadEnvFallback(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_from_env")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama.internal:11434")

	path := writeTestConfig(t, `
server:
  port: 8080
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gsk_from_env", cfg.Provider.Groq.APIKey)
	assert.Equal(t, "http://ollama.internal:11434", cfg.Provider.Ollama.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

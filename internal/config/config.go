package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	Generation GenerationConfig `mapstructure:"generation"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Log        LogConfig        `mapstructure:"log"`
	Storage    StorageConfig    `mapstructure:"storage"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

type ProviderConfig struct {
	Default string       `mapstructure:"default"`
	Groq    GroqConfig   `mapstructure:"groq"`
	OpenAI  OpenAIConfig `mapstructure:"openai"`
	Ollama  OllamaConfig `mapstructure:"ollama"`
	Doubao  DoubaoConfig `mapstructure:"doubao"`
	Qwen    QwenConfig   `mapstructure:"qwen"`
}

type GroqConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type OllamaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DoubaoConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type QwenConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float32       `mapstructure:"temperature"`
	TopP        float32       `mapstructure:"top_p"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type GenerationConfig struct {
	TokenLimit  int           `mapstructure:"token_limit"`
	TypingDelay time.Duration `mapstructure:"typing_delay"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"`
	DataDir   string `mapstructure:"data_dir"`
	CacheSize int    `mapstructure:"cache_size"`
}

var cfg *Config

func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PAGEFORGE")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// 配置文件优先，缺省时回退到环境变量
	if cfg.Provider.Groq.APIKey == "" {
		cfg.Provider.Groq.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if cfg.Provider.OpenAI.APIKey == "" {
		cfg.Provider.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Provider.Doubao.APIKey == "" {
		if apiKey := os.Getenv("DOUBAO_API_KEY"); apiKey != "" {
			cfg.Provider.Doubao.APIKey = apiKey
		}
		if apiKey := os.Getenv("ARK_API_KEY"); apiKey != "" {
			cfg.Provider.Doubao.APIKey = apiKey
		}
	}
	if cfg.Provider.Qwen.APIKey == "" {
		cfg.Provider.Qwen.APIKey = os.Getenv("DASHSCOPE_API_KEY")
	}
	if cfg.Provider.Ollama.BaseURL == "" {
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.Provider.Ollama.BaseURL = baseURL
		} else {
			cfg.Provider.Ollama.BaseURL = "http://localhost:11434"
		}
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(c *Config) {
	if c.Provider.Groq.BaseURL == "" {
		c.Provider.Groq.BaseURL = "https://api.groq.com/openai/v1"
	}
	if c.Provider.Groq.Model == "" {
		c.Provider.Groq.Model = "llama-3.3-70b-versatile"
	}
	if c.Provider.OpenAI.Model == "" {
		c.Provider.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Provider.Ollama.Model == "" {
		c.Provider.Ollama.Model = "llama3"
	}
	if c.Provider.Ollama.Timeout == 0 {
		c.Provider.Ollama.Timeout = 300 * time.Second
	}
	if c.Generation.TokenLimit == 0 {
		c.Generation.TokenLimit = 30000
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "./data"
	}
	if c.Storage.CacheSize == 0 {
		c.Storage.CacheSize = 100
	}
}

func Get() *Config {
	return cfg
}

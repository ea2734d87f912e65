package embedding

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
)

type Config struct {
	Provider  string        `envconfig:"EMBEDDING_PROVIDER" default:"http"`
	Model     string        `envconfig:"EMBEDDING_MODEL" default:"clip-vit-base-patch32"`
	MaxLength int           `envconfig:"EMBEDDING_MAX_LENGTH"`
	BaseURL   string        `envconfig:"EMBEDDING_BASE_URL" default:"http://localhost:11434"`
	APIKey    string        `envconfig:"EMBEDDING_API_KEY"`
	Timeout   time.Duration `envconfig:"EMBEDDING_TIMEOUT" default:"60s"`
}

func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load embedding config: %w", err)
	}
	return &cfg, nil
}

// NewClient builds the client selected by cfg.Provider.
func NewClient(cfg Config) (Client, error) {
	switch cfg.Provider {
	case ProviderHTTP, "":
		return NewHTTPClient(cfg.BaseURL, WithTimeout(cfg.Timeout))
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Provider)
	}
}

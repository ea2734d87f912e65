package search

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	VideosFolder string        `envconfig:"VIDEOS_FOLDER" default:"./test_1k_compress"`
	TopK         int           `envconfig:"TOP_K" default:"10"`
	MaxK         int           `envconfig:"MAX_K" default:"100"`
	RedisURL     string        `envconfig:"REDIS_URL"`
	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"10m"`
}

func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load search config: %w", err)
	}
	if cfg.TopK <= 0 {
		return nil, fmt.Errorf("TOP_K must be positive, got %d", cfg.TopK)
	}
	if cfg.MaxK < cfg.TopK {
		cfg.MaxK = cfg.TopK
	}
	return &cfg, nil
}

package main

import (
	"fmt"

	"github.com/DjordjeVuckovic/video-hunter/internal/embedding"
	"github.com/DjordjeVuckovic/video-hunter/internal/search"
	"github.com/DjordjeVuckovic/video-hunter/internal/vectordb"
	"github.com/kelseyhightower/envconfig"
)

const (
	ClickLogFile     = "file"
	ClickLogPostgres = "postgres"
)

type ClickLogConfig struct {
	Backend string `envconfig:"CLICK_LOG_BACKEND" default:"file"`
	Path    string `envconfig:"CLICK_LOG_PATH" default:"query_click_logs.json"`
	PgConn  string `envconfig:"CLICK_LOG_PG_CONNECTION_STRING"`
}

type AppConfig struct {
	Search    *search.Config
	Vector    *vectordb.Config
	Embedding *embedding.Config
	ClickLog  ClickLogConfig
}

type AppSettings struct{}

func NewAppConfig() *AppSettings {
	return &AppSettings{}
}

// Load reads every component config from the environment. The .env file has
// already been applied by server.LoadConfig.
func (a *AppSettings) Load() (*AppConfig, error) {
	searchCfg, err := search.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	vectorCfg, err := vectordb.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	embedCfg, err := embedding.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	var clicks ClickLogConfig
	if err := envconfig.Process("", &clicks); err != nil {
		return nil, fmt.Errorf("load click log config: %w", err)
	}
	switch clicks.Backend {
	case ClickLogFile:
	case ClickLogPostgres:
		if clicks.PgConn == "" {
			clicks.PgConn = vectorCfg.Postgres.ConnStr
		}
		if clicks.PgConn == "" {
			return nil, fmt.Errorf("postgres click log needs CLICK_LOG_PG_CONNECTION_STRING or PG_CONNECTION_STRING")
		}
	default:
		return nil, fmt.Errorf("unsupported click log backend %q", clicks.Backend)
	}

	return &AppConfig{
		Search:    searchCfg,
		Vector:    vectorCfg,
		Embedding: embedCfg,
		ClickLog:  clicks,
	}, nil
}

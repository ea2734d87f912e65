package vectordb

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	KindMilvus        = "milvus"
	KindQdrant        = "qdrant"
	KindPgvector      = "pgvector"
	KindElasticsearch = "elasticsearch"
	KindMemory        = "memory"
)

type Config struct {
	Kind       string `envconfig:"VECTOR_STORE" default:"milvus"`
	Collection string `envconfig:"VECTOR_COLLECTION" default:"video_search"`
	Dim        int    `envconfig:"VECTOR_DIM" default:"512"`

	Milvus   MilvusConfig
	Qdrant   QdrantConfig
	Postgres PgConfig
	Es       EsConfig
	Memory   MemoryConfig
}

type MilvusConfig struct {
	Address  string `envconfig:"MILVUS_ADDRESS" default:"localhost:19530"`
	Username string `envconfig:"MILVUS_USERNAME"`
	Password string `envconfig:"MILVUS_PASSWORD"`
	APIKey   string `envconfig:"MILVUS_API_KEY"`
	NList    int    `envconfig:"MILVUS_NLIST" default:"2048"`
	NProbe   int    `envconfig:"MILVUS_NPROBE" default:"16"`
}

type QdrantConfig struct {
	Host   string `envconfig:"QDRANT_HOST" default:"localhost"`
	Port   int    `envconfig:"QDRANT_PORT" default:"6334"`
	APIKey string `envconfig:"QDRANT_API_KEY"`
	UseTLS bool   `envconfig:"QDRANT_USE_TLS"`
}

type PgConfig struct {
	ConnStr string `envconfig:"PG_CONNECTION_STRING"`
}

type EsConfig struct {
	Addresses []string `envconfig:"ES_ADDRESSES" default:"http://localhost:9200"`
	Username  string   `envconfig:"ES_USERNAME"`
	Password  string   `envconfig:"ES_PASSWORD"`
}

type MemoryConfig struct {
	Path string `envconfig:"MEMORY_VECTORS_PATH"`
}

func LoadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load vector store config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	c.Kind = strings.ToLower(strings.TrimSpace(c.Kind))

	switch c.Kind {
	case KindMilvus:
		if c.Milvus.Address == "" {
			return fmt.Errorf("milvus address is not set")
		}
	case KindQdrant:
		if c.Qdrant.Host == "" {
			return fmt.Errorf("qdrant host is not set")
		}
	case KindPgvector:
		if c.Postgres.ConnStr == "" {
			return fmt.Errorf("PostgreSQL connection string is not set")
		}
	case KindElasticsearch:
		if len(c.Es.Addresses) == 0 {
			return fmt.Errorf("elasticsearch addresses are not set")
		}
	case KindMemory:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedStore, c.Kind)
	}

	if c.Collection == "" {
		return fmt.Errorf("collection name is not set")
	}
	if c.Dim <= 0 {
		return fmt.Errorf("vector dimension must be positive, got %d", c.Dim)
	}
	return nil
}

package vectordb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/video-hunter/internal/storage/pg"
)

// New connects to the backend named by cfg.Kind. The returned cleanup
// releases any resources the store does not own itself.
func New(ctx context.Context, cfg Config) (Store, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	noop := func() {}

	slog.Info("connecting vector store", "kind", cfg.Kind, "collection", cfg.Collection, "dim", cfg.Dim)

	switch cfg.Kind {
	case KindMilvus:
		s, err := NewMilvusStore(ctx, cfg.Milvus, cfg.Collection, cfg.Dim)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil

	case KindQdrant:
		s, err := NewQdrantStore(cfg.Qdrant, cfg.Collection, cfg.Dim)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil

	case KindPgvector:
		pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.Postgres.ConnStr})
		if err != nil {
			return nil, nil, fmt.Errorf("create pg pool: %w", err)
		}
		return NewPgStore(pool, cfg.Collection, cfg.Dim), pool.Close, nil

	case KindElasticsearch:
		s, err := NewEsStore(cfg.Es, cfg.Collection, cfg.Dim)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil

	case KindMemory:
		if cfg.Memory.Path == "" {
			return NewMemStore(cfg.Dim), noop, nil
		}
		s, err := LoadMemStore(cfg.Memory.Path, cfg.Dim)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedStore, cfg.Kind)
}

package engine

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/runner"
	"github.com/DjordjeVuckovic/video-hunter/internal/eval/spec"
	"github.com/DjordjeVuckovic/video-hunter/internal/search"
	"github.com/DjordjeVuckovic/video-hunter/internal/vectordb"
	"github.com/DjordjeVuckovic/video-hunter/pkg/utils"
)

const DefaultCollection = "video_search"

// VectorConfig translates a spec store entry into a vector store config.
// Backend tuning not expressible in an eval spec keeps its env defaults from base.
func VectorConfig(st spec.Store, base vectordb.Config) (vectordb.Config, error) {
	cfg := base
	cfg.Kind = st.Type
	cfg.Collection = st.Collection
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	switch st.Type {
	case spec.StoreMilvus:
		cfg.Milvus.Address = st.Connection
	case spec.StoreQdrant:
		host, port, err := splitHostPort(st.Connection, cfg.Qdrant.Port)
		if err != nil {
			return vectordb.Config{}, err
		}
		cfg.Qdrant.Host, cfg.Qdrant.Port = host, port
	case spec.StorePgvector:
		cfg.Postgres.ConnStr = st.Connection
	case spec.StoreElasticsearch:
		cfg.Es.Addresses = utils.SplitAndTrim(st.Connection, ",")
	case spec.StoreMemory:
		cfg.Memory.Path = st.Connection
	default:
		return vectordb.Config{}, fmt.Errorf("%w: %q", vectordb.ErrUnsupportedStore, st.Type)
	}

	if err := cfg.Validate(); err != nil {
		return vectordb.Config{}, err
	}
	return cfg, nil
}

func splitHostPort(conn string, defaultPort int) (string, int, error) {
	if !strings.Contains(conn, ":") {
		return conn, defaultPort, nil
	}
	host, p, err := net.SplitHostPort(conn)
	if err != nil {
		return "", 0, fmt.Errorf("invalid qdrant address %q: %w", conn, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return "", 0, fmt.Errorf("invalid qdrant port %q: %w", p, err)
	}
	return host, port, nil
}

// CreateFromSpec opens one retriever per store. Vector stores are searched
// through a local pipeline using embedder; api stores are queried over HTTP.
func CreateFromSpec(
	ctx context.Context,
	stores map[string]spec.Store,
	embedder search.QueryEmbedder,
	base vectordb.Config,
) (map[string]runner.Retriever, func(), error) {
	retrievers := make(map[string]runner.Retriever, len(stores))
	var cleanups []func()

	cleanup := func() {
		for _, c := range cleanups {
			c()
		}
	}

	for name, st := range stores {
		if st.Type == spec.StoreAPI {
			retrievers[name] = NewAPIRetriever(name, st.Connection)
			continue
		}

		if embedder == nil {
			cleanup()
			return nil, nil, fmt.Errorf("store %q needs a query embedder", name)
		}

		cfg, err := VectorConfig(st, base)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("store %q: %w", name, err)
		}

		vs, closeFn, err := vectordb.New(ctx, cfg)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("open store %q: %w", name, err)
		}
		cleanups = append(cleanups, func() {
			_ = vs.Close()
			closeFn()
		})

		retrievers[name] = search.NewPipeline(embedder, vs)
	}

	return retrievers, cleanup, nil
}

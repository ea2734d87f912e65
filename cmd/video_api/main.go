// Package main Video Hunter API
// @title Video Hunter API
// @version 1.0
// @description Text-to-video retrieval over CLIP embeddings
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/video-hunter/internal/clicklog"
	"github.com/DjordjeVuckovic/video-hunter/internal/embedding"
	"github.com/DjordjeVuckovic/video-hunter/internal/router"
	"github.com/DjordjeVuckovic/video-hunter/internal/search"
	"github.com/DjordjeVuckovic/video-hunter/internal/server"
	"github.com/DjordjeVuckovic/video-hunter/internal/storage/pg"
	"github.com/DjordjeVuckovic/video-hunter/internal/vectordb"
	pkgserver "github.com/DjordjeVuckovic/video-hunter/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelDebug)

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	cfg, err := NewAppConfig().Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}

	healthChecker := pkgserver.NewCompositeHealthChecker(pkgserver.NewOkHealthChecker())

	s := server.New(sCfg, healthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "Video Hunter API is running")
	})

	embedClient, err := embedding.NewClient(*cfg.Embedding)
	if err != nil {
		slog.Error("Failed to create embedding client", "error", err)
		os.Exit(1)
	}
	embedder := embedding.NewEmbedder(embedClient,
		embedding.WithModel(cfg.Embedding.Model),
		embedding.WithMaxLength(cfg.Embedding.MaxLength),
	)

	store, closeStore, err := vectordb.New(s.Context(), *cfg.Vector)
	if err != nil {
		slog.Error("Failed to connect vector store", "error", err)
		os.Exit(1)
	}

	pipelineOpts := []search.Option{
		search.WithVideosFolder(cfg.Search.VideosFolder),
		search.WithLimits(cfg.Search.TopK, cfg.Search.MaxK),
	}
	if cfg.Search.RedisURL != "" {
		cache, err := search.NewRedisCache(s.Context(), cfg.Search.RedisURL, cfg.Search.CacheTTL)
		if err != nil {
			slog.Error("Failed to connect redis cache", "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		pipelineOpts = append(pipelineOpts, search.WithCache(cache))
		slog.Info("Search cache enabled", "ttl", cfg.Search.CacheTTL)
	}

	pipeline := search.NewPipeline(embedder, store, pipelineOpts...)

	clicks, closeClicks, err := newClickStore(s.Context(), cfg.ClickLog, healthChecker)
	if err != nil {
		slog.Error("Failed to create click log", "error", err)
		os.Exit(1)
	}

	searchRouter := router.NewSearchRouter(s.Echo, pipeline, router.WithClickStore(clicks))
	searchRouter.Bind()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()

	closeClicks()
	if cerr := store.Close(); cerr != nil {
		slog.Warn("Failed to close vector store", "error", cerr)
	}
	closeStore()

	if err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}

func newClickStore(ctx context.Context, cfg ClickLogConfig, hc *pkgserver.CompositeHealthChecker) (clicklog.Store, func(), error) {
	if cfg.Backend != ClickLogPostgres {
		slog.Info("Click log writes to file", "path", cfg.Path)
		return clicklog.NewFileStore(cfg.Path), func() {}, nil
	}

	pool, err := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.PgConn})
	if err != nil {
		return nil, nil, err
	}

	store := clicklog.NewPgStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	hc.Add(pg.NewHealthChecker(pool))
	slog.Info("Click log writes to postgres")
	return store, pool.Close, nil
}

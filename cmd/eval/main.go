package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/DjordjeVuckovic/video-hunter/internal/clicklog"
	"github.com/DjordjeVuckovic/video-hunter/internal/embedding"
	"github.com/DjordjeVuckovic/video-hunter/internal/eval/engine"
	"github.com/DjordjeVuckovic/video-hunter/internal/eval/report"
	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/DjordjeVuckovic/video-hunter/internal/eval/runner"
	"github.com/DjordjeVuckovic/video-hunter/internal/eval/spec"
	"github.com/DjordjeVuckovic/video-hunter/internal/qrels"
	"github.com/DjordjeVuckovic/video-hunter/internal/search"
	"github.com/DjordjeVuckovic/video-hunter/internal/storage/pg"
	"github.com/DjordjeVuckovic/video-hunter/internal/vectordb"
	"github.com/DjordjeVuckovic/video-hunter/pkg/config/env"
	"github.com/bytedance/sonic"
)

func main() {
	cfg := parseFlags()
	if cfg.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	if err := env.LoadDotEnv(os.Getenv("APP_ENV"), "cmd/eval/.env"); err != nil {
		slog.Debug("Skipping .env ...", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cfg.Mode {
	case "eval":
		err = runEval(ctx, cfg)
	case "score":
		err = runScore(cfg)
	case "qrels":
		err = runQrels(cfg)
	case "setup":
		err = runSetup(ctx, cfg)
	case "clicks":
		err = runClicks(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	if err != nil {
		slog.Error("Evaluation failed", "mode", cfg.Mode, "error", err)
		stop()
		os.Exit(1)
	}
}

func runEval(ctx context.Context, cfg cliConfig) error {
	var (
		es  *spec.EvalSpec
		err error
	)
	if cfg.SpecPath != "" {
		es, err = spec.LoadFromFile(cfg.SpecPath)
	} else {
		es, err = cfg.quickSpec()
	}
	if err != nil {
		return err
	}

	embedder, err := newQueryEmbedder(es.Stores)
	if err != nil {
		return err
	}

	base, err := baseVectorConfig()
	if err != nil {
		return err
	}

	retrievers, cleanup, err := engine.CreateFromSpec(ctx, es.Stores, embedder, base)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, job := range es.Jobs {
		if err := runJob(ctx, job, es.Runs, retrievers); err != nil {
			return fmt.Errorf("job %q: %w", job.Name, err)
		}
	}
	return nil
}

// newQueryEmbedder returns nil when every store is a remote API, since those
// embed queries server side.
func newQueryEmbedder(stores map[string]spec.Store) (search.QueryEmbedder, error) {
	needsEmbedder := false
	for _, st := range stores {
		if st.Type != spec.StoreAPI {
			needsEmbedder = true
			break
		}
	}
	if !needsEmbedder {
		return nil, nil
	}

	ecfg, err := embedding.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	client, err := embedding.NewClient(*ecfg)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}
	return embedding.NewEmbedder(client,
		embedding.WithModel(ecfg.Model),
		embedding.WithMaxLength(ecfg.MaxLength),
	), nil
}

// baseVectorConfig reads backend tuning from the environment without
// requiring the env-selected store to be reachable.
func baseVectorConfig() (vectordb.Config, error) {
	cfg, err := vectordb.LoadConfigFromEnv()
	if err != nil {
		slog.Debug("Using default vector store tuning", "error", err)
		return vectordb.Config{
			Dim:    512,
			Milvus: vectordb.MilvusConfig{NList: 2048, NProbe: 16},
			Qdrant: vectordb.QdrantConfig{Port: 6334},
		}, nil
	}
	return *cfg, nil
}

func runJob(ctx context.Context, job spec.Job, runs spec.RunsConfig, retrievers map[string]runner.Retriever) error {
	q, err := qrels.Load(job.Qrels)
	if err != nil {
		return err
	}

	r := runner.New(runner.Config{
		TopK:             job.TopK,
		Concurrency:      runs.Concurrency,
		WarmupRuns:       runs.Warmup,
		SingleResultOnly: !job.AllQueries,
	})

	for _, storeName := range job.Stores {
		slog.Info("Evaluating", "job", job.Name, "store", storeName)

		result, err := r.Run(ctx, q, retrievers[storeName])
		if err != nil {
			return fmt.Errorf("store %q: %w", storeName, err)
		}
		if result.ErrorCount > 0 {
			slog.Warn("Some queries failed", "store", storeName, "failed", result.ErrorCount)
		}

		rs, err := resultset.Load(result.Rows())
		if err != nil {
			return fmt.Errorf("store %q: %w", storeName, err)
		}

		summary, err := report.Aggregate(rs)
		if err != nil {
			return fmt.Errorf("store %q: %w", storeName, err)
		}

		rpt := report.New(job.Name, storeName, summary)
		rpt.Latency = &result.Latency

		if err := outputReport(rpt, reportPath(job.Output, storeName, len(job.Stores))); err != nil {
			return err
		}
	}
	return nil
}

// reportPath gives each store its own file when a job covers several.
func reportPath(output, store string, stores int) string {
	if output == "" || stores <= 1 {
		return output
	}
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "_" + store + ext
}

func outputReport(rpt *report.Report, outputPath string) error {
	if err := report.WriteTable(rpt, os.Stdout); err != nil {
		return err
	}

	if outputPath != "" {
		if err := report.WriteJSON(rpt, outputPath); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
		slog.Info("Report written", "path", outputPath)
	}
	return nil
}

func runScore(cfg cliConfig) error {
	if cfg.ResultsPath == "" {
		return fmt.Errorf("score mode requires --results")
	}

	rs, err := resultset.LoadFromFile(cfg.ResultsPath)
	if err != nil {
		return err
	}

	summary, err := report.Aggregate(rs)
	if err != nil {
		return err
	}

	return outputReport(report.New(filepath.Base(cfg.ResultsPath), "", summary), cfg.Output)
}

func runQrels(cfg cliConfig) error {
	q, err := qrels.Load(cfg.QrelsPath)
	if err != nil {
		return err
	}

	st := q.Stats()
	slog.Info("Annotations loaded",
		"path", cfg.QrelsPath,
		"queries", st.Queries,
		"single_result", st.SingleResult,
		"annotations", st.Annotations,
		"max_per_query", st.MaxPerQuery,
	)
	return printJSON(st)
}

func runSetup(ctx context.Context, cfg cliConfig) error {
	if cfg.StoreType == spec.StoreAPI {
		return fmt.Errorf("setup mode needs a vector store, not %q", cfg.StoreType)
	}

	base, err := baseVectorConfig()
	if err != nil {
		return err
	}

	vcfg, err := engine.VectorConfig(spec.Store{
		Type:       strings.ToLower(cfg.StoreType),
		Connection: cfg.Connection,
		Collection: cfg.Collection,
	}, base)
	if err != nil {
		return err
	}

	store, closeFn, err := vectordb.New(ctx, vcfg)
	if err != nil {
		return err
	}
	defer closeFn()
	defer store.Close()

	if err := store.EnsureCollection(ctx, vcfg.Dim, cfg.Recreate); err != nil {
		return err
	}
	slog.Info("Collection ready", "store", vcfg.Kind, "collection", vcfg.Collection, "dim", vcfg.Dim)

	if cfg.VectorsPath == "" {
		return nil
	}

	ids, vecs, err := vectordb.ReadVectorsFile(cfg.VectorsPath)
	if err != nil {
		return err
	}

	batch := max(cfg.BatchSize, 1)
	for start := 0; start < len(ids); start += batch {
		end := min(start+batch, len(ids))
		if err := store.Insert(ctx, ids[start:end], vecs[start:end]); err != nil {
			return fmt.Errorf("insert batch at %d: %w", start, err)
		}
		slog.Debug("Inserted batch", "from", start, "to", end)
	}

	slog.Info("Vectors indexed", "count", len(ids))
	return nil
}

func runClicks(ctx context.Context, cfg cliConfig) error {
	var (
		entries []clicklog.Entry
		err     error
	)

	if cfg.ClicksPg != "" {
		pool, perr := pg.NewConnectionPool(ctx, pg.PoolConfig{ConnStr: cfg.ClicksPg})
		if perr != nil {
			return perr
		}
		defer pool.Close()
		entries, err = clicklog.NewPgStore(pool).List(ctx, 100000)
	} else {
		entries, err = clicklog.ReadFile(cfg.ClicksPath)
	}
	if err != nil {
		return err
	}

	return printJSON(clicklog.Summarize(entries))
}

func printJSON(v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/DjordjeVuckovic/video-hunter/internal/qrels"
	"golang.org/x/sync/errgroup"
)

var ErrNoQueries = errors.New("no queries to run")

// Retriever returns up to k candidates for a free-text query, best first.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]resultset.Candidate, error)
}

type RetrieverFunc func(ctx context.Context, query string, k int) ([]resultset.Candidate, error)

func (f RetrieverFunc) Retrieve(ctx context.Context, query string, k int) ([]resultset.Candidate, error) {
	return f(ctx, query, k)
}

type Runner struct {
	config Config
}

func New(cfg Config) *Runner {
	return &Runner{config: cfg.withDefaults()}
}

// Run sends every annotated query to the retriever. Queries are iterated in
// sorted order and results keep that order regardless of completion order.
// Retrieval failures are recorded per query; only context cancellation
// aborts the run.
func (r *Runner) Run(ctx context.Context, q qrels.Qrels, retriever Retriever) (*Result, error) {
	if r.config.SingleResultOnly {
		q = qrels.FilterSingleResult(q)
	}

	queries := q.Queries()
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}

	slog.Info("running evaluation queries",
		"queries", len(queries),
		"top_k", r.config.TopK,
		"concurrency", r.config.Concurrency,
	)

	results := make([]QueryResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)

	for i, query := range queries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.runQuery(gctx, retriever, query, q[query][0])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run queries: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run queries: %w", err)
	}

	res := &Result{Queries: results, Config: r.config}

	latencies := make([]time.Duration, 0, len(results))
	for _, qr := range results {
		if qr.Error != nil {
			res.ErrorCount++
			continue
		}
		latencies = append(latencies, qr.Latency)
	}
	res.Latency = ComputeLatencyStats(latencies)

	slog.Info("evaluation queries finished",
		"queries", len(results),
		"errors", res.ErrorCount,
		"p50", res.Latency.P50(),
	)

	return res, nil
}

func (r *Runner) runQuery(ctx context.Context, retriever Retriever, query, groundTruth string) QueryResult {
	qr := QueryResult{Query: query, GroundTruth: groundTruth}

	for i := 0; i < r.config.WarmupRuns; i++ {
		_, _ = retriever.Retrieve(ctx, query, r.config.TopK)
	}

	start := time.Now()
	cands, err := retriever.Retrieve(ctx, query, r.config.TopK)
	qr.Latency = time.Since(start)

	if err != nil {
		qr.Error = err
		slog.Warn("query failed", "query", query, "error", err)
		return qr
	}

	qr.Candidates = cands
	return qr
}

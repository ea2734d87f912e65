package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/video-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/DjordjeVuckovic/video-hunter/internal/vectordb"
)

// Pipeline embeds a text query, asks the vector store for the nearest
// videos and resolves them to files on disk.
type Pipeline struct {
	embedder     QueryEmbedder
	searcher     vectordb.Searcher
	cache        Cache
	videosFolder string
	defaultK     int
	maxK         int
}

type Option func(*Pipeline)

func WithCache(c Cache) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.cache = c
		}
	}
}

func WithVideosFolder(folder string) Option {
	return func(p *Pipeline) {
		p.videosFolder = folder
	}
}

func WithLimits(defaultK, maxK int) Option {
	return func(p *Pipeline) {
		if defaultK > 0 {
			p.defaultK = defaultK
		}
		if maxK > 0 {
			p.maxK = maxK
		}
	}
}

func NewPipeline(embedder QueryEmbedder, searcher vectordb.Searcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		embedder:     embedder,
		searcher:     searcher,
		cache:        NopCache{},
		videosFolder: ".",
		defaultK:     resultset.MaxDepth,
		maxK:         100,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Search(ctx context.Context, query string, k int) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.NewValidation("query parameter is required")
	}
	k = p.clampK(k)

	hits, cached, err := p.hits(ctx, query, k)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			VideoID: h.ID,
			Tag:     h.ID.String(),
			Path:    VideoPath(p.videosFolder, h.ID),
			Score:   h.Score,
			Rank:    i + 1,
		}
	}

	return &Response{Query: query, K: k, Results: results, Cached: cached}, nil
}

// Retrieve exposes the pipeline as an evaluation retriever.
func (p *Pipeline) Retrieve(ctx context.Context, query string, k int) ([]resultset.Candidate, error) {
	resp, err := p.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}

	out := make([]resultset.Candidate, len(resp.Results))
	for i, r := range resp.Results {
		out[i] = resultset.Candidate{ID: r.VideoID, Score: float64(r.Score)}
	}
	return out, nil
}

func (p *Pipeline) hits(ctx context.Context, query string, k int) ([]vectordb.Hit, bool, error) {
	key := CacheKey(query, k)

	hits, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("search cache read failed", "error", err)
	}
	if ok {
		return hits, true, nil
	}

	vec, err := p.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, false, err
	}

	hits, err = p.searcher.Search(ctx, vec.Embedding, k)
	if err != nil {
		return nil, false, fmt.Errorf("vector search: %w", err)
	}

	if err := p.cache.Set(ctx, key, hits); err != nil {
		slog.Warn("search cache write failed", "error", err)
	}

	slog.Debug("search completed", "query", query, "k", k, "hits", len(hits))
	return hits, false, nil
}

func (p *Pipeline) clampK(k int) int {
	if k <= 0 {
		return p.defaultK
	}
	return min(k, p.maxK)
}

package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/video-hunter/internal/apperr"
)

type Embedder struct {
	maxLength int
	model     string

	client Client
}

type Vec struct {
	Embedding []float32
	Model     string
}

type EmbedderOption func(*Embedder)

func NewEmbedder(client Client, opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		model:  defaultModel,
		client: client,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func WithModel(model string) EmbedderOption {
	return func(e *Embedder) {
		if model != "" {
			e.model = model
		}
	}
}

// WithMaxLength truncates every vector to n dimensions. Zero disables it.
func WithMaxLength(n int) EmbedderOption {
	return func(e *Embedder) {
		e.maxLength = n
	}
}

func (e *Embedder) Model() string { return e.model }

// EmbedQuery maps a free-text search query into the frame embedding space.
func (e *Embedder) EmbedQuery(ctx context.Context, query string) (*Vec, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.NewValidation("query is empty")
	}

	resp, err := e.client.Generate(ctx, Request{
		Model:  e.model,
		Prompt: query,
	})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	slog.Debug("embedded query", "model", e.model, "dim", len(resp.Embedding))
	return &Vec{Embedding: e.truncate(resp.Embedding), Model: e.model}, nil
}

func (e *Embedder) EmbedQueries(ctx context.Context, queries []string) ([]Vec, error) {
	if len(queries) == 0 {
		return nil, nil
	}

	prompts := make([]string, len(queries))
	for i, q := range queries {
		prompts[i] = strings.TrimSpace(q)
	}

	resp, err := e.client.GenerateBatch(ctx, BatchRequest{
		Model:   e.model,
		Prompts: prompts,
	})
	if err != nil {
		return nil, fmt.Errorf("embed queries: %w", err)
	}
	if len(resp.Embeddings) != len(queries) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(queries), len(resp.Embeddings))
	}

	vecs := make([]Vec, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vecs[i] = Vec{Embedding: e.truncate(emb), Model: e.model}
	}

	slog.Debug("embedded queries", "count", len(vecs), "model", e.model)
	return vecs, nil
}

func (e *Embedder) truncate(v []float32) []float32 {
	if e.maxLength > 0 && len(v) > e.maxLength {
		return v[:e.maxLength]
	}
	return v
}

package embedding

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/video-hunter/internal/apperr"
	"github.com/sashabaranov/go-openai"
)

// OpenAIClient embeds through any OpenAI-compatible /v1/embeddings endpoint.
type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg)}
}

func (oc *OpenAIClient) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.Prompt == "" {
		return nil, apperr.NewValidation("missing text to embed")
	}

	batch, err := oc.GenerateBatch(ctx, BatchRequest{Model: req.Model, Prompts: []string{req.Prompt}})
	if err != nil {
		return nil, err
	}
	return &Response{Embedding: batch.Embeddings[0]}, nil
}

func (oc *OpenAIClient) GenerateBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	if len(req.Prompts) == 0 {
		return nil, apperr.NewValidation("missing prompts to embed")
	}
	if req.Model == "" {
		return nil, apperr.NewValidation("missing model name")
	}

	resp, err := oc.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: req.Prompts,
		Model: openai.EmbeddingModel(req.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(req.Prompts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(req.Prompts), len(resp.Data))
	}

	out := &BatchResponse{Embeddings: make([][]float32, len(resp.Data))}
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out.Embeddings) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		out.Embeddings[d.Index] = d.Embedding
	}
	return out, nil
}

package search

import (
	"context"

	"github.com/DjordjeVuckovic/video-hunter/internal/embedding"
	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
)

// Result is one ranked video. Rank is 1-based.
type Result struct {
	VideoID resultset.VideoID `json:"video_id"`
	Tag     string            `json:"tag"`
	Path    string            `json:"path"`
	Score   float32           `json:"score"`
	Rank    int               `json:"rank"`
}

type Response struct {
	Query   string   `json:"query"`
	K       int      `json:"k"`
	Results []Result `json:"results"`
	Cached  bool     `json:"cached"`
}

// QueryEmbedder turns free text into a query vector.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, query string) (*embedding.Vec, error)
}

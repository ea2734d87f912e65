package vectordb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
)

const (
	IDField     = "id"
	VectorField = "embedding"
)

var (
	ErrUnsupportedStore = errors.New("unsupported vector store")
	ErrDimMismatch      = errors.New("vector dimension mismatch")
)

// Hit is one retrieved video. Score is higher-is-better for every backend.
type Hit struct {
	ID    resultset.VideoID `json:"id"`
	Score float32           `json:"score"`
}

// Searcher runs nearest-neighbour queries over frame embeddings.
type Searcher interface {
	Search(ctx context.Context, vec []float32, limit int) ([]Hit, error)
	Close() error
}

// Indexer owns the collection lifecycle and ingestion.
type Indexer interface {
	EnsureCollection(ctx context.Context, dim int, recreate bool) error
	Insert(ctx context.Context, ids []resultset.VideoID, vecs [][]float32) error
}

// Store is implemented by every backend.
type Store interface {
	Searcher
	Indexer
}

// DistanceToScore maps an L2 distance onto (0, 1].
func DistanceToScore(d float32) float32 {
	if d < 0 {
		d = 0
	}
	return 1 / (1 + d)
}

func validateBatch(ids []resultset.VideoID, vecs [][]float32, dim int) error {
	if len(ids) != len(vecs) {
		return errors.New("ids and vectors length differ")
	}
	if dim <= 0 {
		return nil
	}
	for i, v := range vecs {
		if len(v) != dim {
			return &DimError{Index: i, Want: dim, Got: len(v)}
		}
	}
	return nil
}

type DimError struct {
	Index int
	Want  int
	Got   int
}

func (e *DimError) Error() string {
	return fmt.Sprintf("vector %d: expected dim %d, got %d", e.Index, e.Want, e.Got)
}

func (e *DimError) Is(target error) bool {
	return target == ErrDimMismatch
}

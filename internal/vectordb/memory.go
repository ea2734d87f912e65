package vectordb

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/bytedance/sonic"
	"gonum.org/v1/gonum/floats"
)

// MemStore is a brute-force L2 index for development and tests.
type MemStore struct {
	mu   sync.RWMutex
	dim  int
	vecs map[resultset.VideoID][]float64
}

func NewMemStore(dim int) *MemStore {
	return &MemStore{dim: dim, vecs: make(map[resultset.VideoID][]float64)}
}

type memRecord struct {
	ID        int64     `json:"id"`
	Embedding []float32 `json:"embedding"`
}

// ReadVectorsFile reads a JSON array of {"id", "embedding"} records.
func ReadVectorsFile(path string) ([]resultset.VideoID, [][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read vectors file: %w", err)
	}

	var recs []memRecord
	if err := sonic.Unmarshal(data, &recs); err != nil {
		return nil, nil, fmt.Errorf("parse vectors file: %w", err)
	}

	ids := make([]resultset.VideoID, len(recs))
	vecs := make([][]float32, len(recs))
	for i, r := range recs {
		ids[i] = resultset.VideoID(r.ID)
		vecs[i] = r.Embedding
	}
	return ids, vecs, nil
}

func LoadMemStore(path string, dim int) (*MemStore, error) {
	ids, vecs, err := ReadVectorsFile(path)
	if err != nil {
		return nil, err
	}

	s := NewMemStore(dim)
	if err := s.Insert(context.Background(), ids, vecs); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MemStore) EnsureCollection(_ context.Context, dim int, recreate bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dim > 0 {
		s.dim = dim
	}
	if recreate {
		s.vecs = make(map[resultset.VideoID][]float64)
	}
	return nil
}

func (s *MemStore) Insert(_ context.Context, ids []resultset.VideoID, vecs [][]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateBatch(ids, vecs, s.dim); err != nil {
		return err
	}
	for i, id := range ids {
		s.vecs[id] = toFloat64(vecs[i])
	}
	return nil
}

func (s *MemStore) Search(ctx context.Context, vec []float32, limit int) ([]Hit, error) {
	if limit <= 0 {
		return nil, nil
	}
	if s.dim > 0 && len(vec) != s.dim {
		return nil, &DimError{Want: s.dim, Got: len(vec)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := toFloat64(vec)

	s.mu.RLock()
	type scored struct {
		id   resultset.VideoID
		dist float64
	}
	all := make([]scored, 0, len(s.vecs))
	for id, v := range s.vecs {
		all = append(all, scored{id: id, dist: floats.Distance(q, v, 2)})
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b scored) int {
		if c := cmp.Compare(a.dist, b.dist); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	n := min(limit, len(all))
	hits := make([]Hit, n)
	for i := 0; i < n; i++ {
		hits[i] = Hit{ID: all[i].id, Score: DistanceToScore(float32(all[i].dist))}
	}
	return hits, nil
}

func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vecs)
}

func (s *MemStore) Close() error {
	return nil
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

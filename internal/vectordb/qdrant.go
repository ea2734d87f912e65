package vectordb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/qdrant/go-client/qdrant"
)

type QdrantStore struct {
	client *qdrant.Client
	coll   string
	dim    int
}

func NewQdrantStore(cfg QdrantConfig, collection string, dim int) (*QdrantStore, error) {
	c, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return &QdrantStore{client: c, coll: collection, dim: dim}, nil
}

func (s *QdrantStore) EnsureCollection(ctx context.Context, dim int, recreate bool) error {
	if dim > 0 {
		s.dim = dim
	}

	exists, err := s.client.CollectionExists(ctx, s.coll)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if exists && recreate {
		if err := s.client.DeleteCollection(ctx, s.coll); err != nil {
			return fmt.Errorf("failed to delete collection %s: %w", s.coll, err)
		}
		exists = false
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.coll,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(s.dim),
			Distance: qdrant.Distance_Euclid,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", s.coll, err)
	}

	slog.Info("qdrant collection created", "collection", s.coll, "dim", s.dim)
	return nil
}

func (s *QdrantStore) Insert(ctx context.Context, ids []resultset.VideoID, vecs [][]float32) error {
	if err := validateBatch(ids, vecs, s.dim); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(ids))
	for i, id := range ids {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(id)),
			Vectors: qdrant.NewVectors(vecs[i]...),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.coll,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, vec []float32, limit int) ([]Hit, error) {
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.coll,
		Query:          qdrant.NewQueryDense(vec),
		Limit:          qdrant.PtrOf(uint64(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search: %w", err)
	}
	return scoredPointsToHits(points)
}

func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// scoredPointsToHits converts Euclid distances returned by qdrant.
func scoredPointsToHits(points []*qdrant.ScoredPoint) ([]Hit, error) {
	hits := make([]Hit, 0, len(points))
	for _, p := range points {
		num, ok := p.GetId().GetPointIdOptions().(*qdrant.PointId_Num)
		if !ok {
			return nil, fmt.Errorf("point id %v is not numeric", p.GetId())
		}
		hits = append(hits, Hit{
			ID:    resultset.VideoID(num.Num),
			Score: DistanceToScore(p.GetScore()),
		})
	}
	return hits, nil
}

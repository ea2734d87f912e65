package vectordb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const defaultShards = 2

// MilvusStore keeps one INT64 primary key and one FLOAT_VECTOR field per
// video, indexed with IVF_FLAT under L2.
type MilvusStore struct {
	mc     client.Client
	coll   string
	dim    int
	nlist  int
	nprobe int
}

func NewMilvusStore(ctx context.Context, cfg MilvusConfig, collection string, dim int) (*MilvusStore, error) {
	mc, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		APIKey:   cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("connect milvus: %w", err)
	}

	return NewMilvusStoreWithClient(mc, cfg, collection, dim), nil
}

func NewMilvusStoreWithClient(mc client.Client, cfg MilvusConfig, collection string, dim int) *MilvusStore {
	s := &MilvusStore{
		mc:     mc,
		coll:   collection,
		dim:    dim,
		nlist:  cfg.NList,
		nprobe: cfg.NProbe,
	}
	if s.nlist <= 0 {
		s.nlist = 2048
	}
	if s.nprobe <= 0 {
		s.nprobe = 16
	}
	return s
}

func (s *MilvusStore) EnsureCollection(ctx context.Context, dim int, recreate bool) error {
	if dim > 0 {
		s.dim = dim
	}

	has, err := s.mc.HasCollection(ctx, s.coll)
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}

	if has && recreate {
		slog.Info("dropping milvus collection", "collection", s.coll)
		if err := s.mc.DropCollection(ctx, s.coll); err != nil {
			return fmt.Errorf("drop collection: %w", err)
		}
		has = false
	}

	if !has {
		schema := entity.NewSchema().
			WithName(s.coll).
			WithDescription("video frame embeddings").
			WithField(entity.NewField().WithName(IDField).WithDataType(entity.FieldTypeInt64).WithIsPrimaryKey(true)).
			WithField(entity.NewField().WithName(VectorField).WithDataType(entity.FieldTypeFloatVector).WithDim(int64(s.dim)))

		if err := s.mc.CreateCollection(ctx, schema, defaultShards); err != nil {
			return fmt.Errorf("create collection: %w", err)
		}

		idx, err := entity.NewIndexIvfFlat(entity.L2, s.nlist)
		if err != nil {
			return fmt.Errorf("new ivf_flat index: %w", err)
		}
		if err := s.mc.CreateIndex(ctx, s.coll, VectorField, idx, false); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
		slog.Info("milvus collection created", "collection", s.coll, "dim", s.dim, "nlist", s.nlist)
	}

	if err := s.mc.LoadCollection(ctx, s.coll, false); err != nil {
		return fmt.Errorf("load collection: %w", err)
	}
	return nil
}

func (s *MilvusStore) Insert(ctx context.Context, ids []resultset.VideoID, vecs [][]float32) error {
	if err := validateBatch(ids, vecs, s.dim); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	raw := make([]int64, len(ids))
	for i, id := range ids {
		raw[i] = int64(id)
	}

	if _, err := s.mc.Insert(ctx, s.coll, "",
		entity.NewColumnInt64(IDField, raw),
		entity.NewColumnFloatVector(VectorField, s.dim, vecs),
	); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	if err := s.mc.Flush(ctx, s.coll, false); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	slog.Debug("milvus insert", "collection", s.coll, "count", len(ids))
	return nil
}

func (s *MilvusStore) Search(ctx context.Context, vec []float32, limit int) ([]Hit, error) {
	sp, err := entity.NewIndexIvfFlatSearchParam(s.nprobe)
	if err != nil {
		return nil, fmt.Errorf("search param: %w", err)
	}

	res, err := s.mc.Search(ctx, s.coll, []string{}, "", []string{IDField},
		[]entity.Vector{entity.FloatVector(vec)}, VectorField, entity.L2, limit, sp)
	if err != nil {
		return nil, fmt.Errorf("milvus search: %w", err)
	}
	if len(res) == 0 {
		return nil, nil
	}

	col, ok := res[0].IDs.(*entity.ColumnInt64)
	if !ok {
		return nil, fmt.Errorf("unexpected id column type %T", res[0].IDs)
	}
	return hitsFromDistances(col.Data(), res[0].Scores), nil
}

func (s *MilvusStore) Close() error {
	return s.mc.Close()
}

// hitsFromDistances pairs ids with L2 distances, nearest first.
func hitsFromDistances(ids []int64, distances []float32) []Hit {
	n := min(len(ids), len(distances))
	hits := make([]Hit, n)
	for i := 0; i < n; i++ {
		hits[i] = Hit{ID: resultset.VideoID(ids[i]), Score: DistanceToScore(distances[i])}
	}
	return hits
}

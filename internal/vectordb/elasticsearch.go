package vectordb

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/bytedance/sonic"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// EsStore runs approximate kNN over a dense_vector field. Elasticsearch
// scores are already higher-is-better and are passed through.
type EsStore struct {
	client *elasticsearch.TypedClient
	index  string
	dim    int
}

func NewEsStore(cfg EsConfig, index string, dim int) (*EsStore, error) {
	esCfg := elasticsearch.Config{Addresses: cfg.Addresses}
	if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	client, err := elasticsearch.NewTypedClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return &EsStore{client: client, index: index, dim: dim}, nil
}

type esDoc struct {
	VideoID   int64     `json:"video_id"`
	Embedding []float32 `json:"embedding"`
}

func (s *EsStore) EnsureCollection(ctx context.Context, dim int, recreate bool) error {
	if dim > 0 {
		s.dim = dim
	}

	exists, err := s.client.Indices.Exists(s.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists && recreate {
		if _, err := s.client.Indices.Delete(s.index).Do(ctx); err != nil {
			return fmt.Errorf("failed to delete index: %w", err)
		}
		exists = false
	}
	if exists {
		return nil
	}

	indexed := true
	vecProp := types.NewDenseVectorProperty()
	vecProp.Dims = &s.dim
	vecProp.Index = &indexed

	mappings := types.TypeMapping{
		Properties: map[string]types.Property{
			"video_id":  types.NewLongNumberProperty(),
			VectorField: vecProp,
		},
	}

	res, err := s.client.Indices.Create(s.index).Mappings(&mappings).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !res.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created successfully", "index", s.index, "dim", s.dim)
	return nil
}

func (s *EsStore) Insert(ctx context.Context, ids []resultset.VideoID, vecs [][]float32) error {
	if err := validateBatch(ids, vecs, s.dim); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:      s.index,
		Client:     s.client,
		NumWorkers: 2,
		Refresh:    "wait_for",
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	for i, id := range ids {
		body, err := sonic.Marshal(esDoc{VideoID: int64(id), Embedding: vecs[i]})
		if err != nil {
			return fmt.Errorf("marshal document %d: %w", id, err)
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: strconv.FormatInt(int64(id), 10),
			Body:       bytes.NewReader(body),
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
					return
				}
				slog.Error("bulk index error", "status", res.Status, "reason", res.Error.Reason, "id", item.DocumentID)
			},
		})
		if err != nil {
			return fmt.Errorf("add document %d: %w", id, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}
	if st := bi.Stats(); st.NumFailed > 0 {
		return fmt.Errorf("failed to index %d out of %d embeddings", st.NumFailed, len(ids))
	}
	return nil
}

func (s *EsStore) Search(ctx context.Context, vec []float32, limit int) ([]Hit, error) {
	candidates := max(limit*10, 100)

	res, err := s.client.Search().
		Index(s.index).
		Request(&search.Request{
			Size: &limit,
			Knn: []types.KnnSearch{{
				Field:         VectorField,
				QueryVector:   vec,
				K:             &limit,
				NumCandidates: &candidates,
			}},
		}).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute knn search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits.Hits))
	for _, h := range res.Hits.Hits {
		if h.Id_ == nil {
			continue
		}
		id, err := strconv.ParseInt(*h.Id_, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse document id %q: %w", *h.Id_, err)
		}
		var score float32
		if h.Score_ != nil {
			score = float32(*h.Score_)
		}
		hits = append(hits, Hit{ID: resultset.VideoID(id), Score: score})
	}
	return hits, nil
}

func (s *EsStore) Close() error {
	return nil
}

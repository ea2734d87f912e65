package vectordb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/DjordjeVuckovic/video-hunter/internal/storage/pg"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
)

// PgStore keeps embeddings in a pgvector column and ranks by the <-> (L2)
// operator.
type PgStore struct {
	pool  *pg.ConnectionPool
	table string
	dim   int
}

func NewPgStore(pool *pg.ConnectionPool, table string, dim int) *PgStore {
	return &PgStore{pool: pool, table: table, dim: dim}
}

func (s *PgStore) EnsureCollection(ctx context.Context, dim int, recreate bool) error {
	if dim > 0 {
		s.dim = dim
	}
	table := pgx.Identifier{s.table}.Sanitize()

	stmts := []string{"CREATE EXTENSION IF NOT EXISTS vector"}
	if recreate {
		stmts = append(stmts, "DROP TABLE IF EXISTS "+table)
	}
	stmts = append(stmts,
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s BIGINT PRIMARY KEY, %s vector(%d) NOT NULL)",
			table, IDField, VectorField, s.dim),
	)

	conn := s.pool.GetConn()
	for _, stmt := range stmts {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure pgvector table: %w", err)
		}
	}

	slog.Info("pgvector table ready", "table", s.table, "dim", s.dim)
	return nil
}

func (s *PgStore) Insert(ctx context.Context, ids []resultset.VideoID, vecs [][]float32) error {
	if err := validateBatch(ids, vecs, s.dim); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s",
		pgx.Identifier{s.table}.Sanitize(), IDField, VectorField, IDField, VectorField, VectorField,
	)

	batch := &pgx.Batch{}
	for i, id := range ids {
		batch.Queue(q, int64(id), pgvector.NewVector(vecs[i]))
	}

	if err := s.pool.GetConn().SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert embeddings: %w", err)
	}
	return nil
}

func (s *PgStore) Search(ctx context.Context, vec []float32, limit int) ([]Hit, error) {
	q := fmt.Sprintf(
		"SELECT %s, %s <-> $1 AS distance FROM %s ORDER BY distance, %s LIMIT $2",
		IDField, VectorField, pgx.Identifier{s.table}.Sanitize(), IDField,
	)

	rows, err := s.pool.GetConn().Query(ctx, q, pgvector.NewVector(vec), limit)
	if err != nil {
		return nil, fmt.Errorf("pgvector search: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			id       int64
			distance float64
		)
		if err := rows.Scan(&id, &distance); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, Hit{ID: resultset.VideoID(id), Score: DistanceToScore(float32(distance))})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hits: %w", err)
	}
	return hits, nil
}

// Close is a no-op; the pool is owned by the caller.
func (s *PgStore) Close() error {
	return nil
}

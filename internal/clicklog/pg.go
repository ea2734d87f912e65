package clicklog

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/video-hunter/internal/storage/pg"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS query_click_logs (
	id            UUID PRIMARY KEY,
	ts            TIMESTAMPTZ NOT NULL,
	query         TEXT NOT NULL,
	clicked_video TEXT NOT NULL,
	ranking       TEXT[] NOT NULL
)`

type PgStore struct {
	pool *pg.ConnectionPool
}

func NewPgStore(pool *pg.ConnectionPool) *PgStore {
	return &PgStore{pool: pool}
}

func (s *PgStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.GetConn().Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create query_click_logs: %w", err)
	}
	return nil
}

func (s *PgStore) Append(ctx context.Context, e Entry) error {
	_, err := s.pool.GetConn().Exec(ctx,
		`INSERT INTO query_click_logs (id, ts, query, clicked_video, ranking) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.Timestamp, e.Query, e.ClickedVideo, e.Ranking,
	)
	if err != nil {
		return fmt.Errorf("insert click entry: %w", err)
	}
	return nil
}

// List returns the most recent entries first.
func (s *PgStore) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.pool.GetConn().Query(ctx,
		`SELECT id, ts, query, clicked_video, ranking FROM query_click_logs ORDER BY ts DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query click entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Query, &e.ClickedVideo, &e.Ranking); err != nil {
			return nil, fmt.Errorf("scan click entry: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/DjordjeVuckovic/video-hunter/internal/qrels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRetriever struct {
	results map[string][]resultset.Candidate
	fail    map[string]error
	calls   atomic.Int64
}

func (s *stubRetriever) Retrieve(_ context.Context, query string, k int) ([]resultset.Candidate, error) {
	s.calls.Add(1)
	if err, ok := s.fail[query]; ok {
		return nil, err
	}
	c := s.results[query]
	if len(c) > k {
		c = c[:k]
	}
	return c, nil
}

func TestRun_ProducesRowsInQueryOrder(t *testing.T) {
	q := qrels.Qrels{
		"b dog runs":     {"video2"},
		"a man cooks":    {"video1"},
		"c two relevant": {"video3", "video4"},
	}
	stub := &stubRetriever{results: map[string][]resultset.Candidate{
		"a man cooks": {{ID: 1, Score: 0.9}, {ID: 5, Score: 0.1}},
		"b dog runs":  {{ID: 7, Score: 0.8}, {ID: 2, Score: 0.7}},
	}}

	res, err := New(Config{TopK: 10, Concurrency: 4, SingleResultOnly: true}).Run(context.Background(), q, stub)
	require.NoError(t, err)

	rows := res.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "a man cooks", rows[0].Query)
	assert.Equal(t, "video1", rows[0].GroundTruth)
	assert.Equal(t, "b dog runs", rows[1].Query)
	assert.Equal(t, 2, res.Latency.SampleCount)
	assert.Zero(t, res.ErrorCount)
}

func TestRun_MultiRelevantUsesFirstTag(t *testing.T) {
	q := qrels.Qrels{"q": {"video3", "video4"}}
	stub := &stubRetriever{results: map[string][]resultset.Candidate{"q": {{ID: 3, Score: 1}}}}

	res, err := New(Config{SingleResultOnly: false}).Run(context.Background(), q, stub)
	require.NoError(t, err)
	assert.Equal(t, "video3", res.Queries[0].GroundTruth)
}

func TestRun_FailedQueryBecomesSkipped(t *testing.T) {
	q := qrels.Qrels{"ok": {"video1"}, "broken": {"video2"}}
	stub := &stubRetriever{
		results: map[string][]resultset.Candidate{"ok": {{ID: 1, Score: 1}}},
		fail:    map[string]error{"broken": errors.New("store unavailable")},
	}

	res, err := New(DefaultConfig()).Run(context.Background(), q, stub)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ErrorCount)
	assert.Equal(t, 1, res.Latency.SampleCount)

	rs, err := resultset.Load(res.Rows())
	require.NoError(t, err)

	recs := rs.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "broken", recs[0].Query)
	assert.False(t, recs[0].HasCandidates())
	assert.True(t, recs[1].HasCandidates())
}

func TestRun_WarmupRuns(t *testing.T) {
	q := qrels.Qrels{"a": {"video1"}, "b": {"video2"}}
	stub := &stubRetriever{}

	_, err := New(Config{WarmupRuns: 2, Concurrency: 1}).Run(context.Background(), q, stub)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stub.calls.Load())
}

func TestRun_TopKPassedToRetriever(t *testing.T) {
	q := qrels.Qrels{"a": {"video1"}}
	var gotK int
	retr := RetrieverFunc(func(_ context.Context, _ string, k int) ([]resultset.Candidate, error) {
		gotK = k
		return nil, nil
	})

	_, err := New(Config{TopK: 5, Concurrency: 1}).Run(context.Background(), q, retr)
	require.NoError(t, err)
	assert.Equal(t, 5, gotK)
}

func TestRun_NoQueries(t *testing.T) {
	_, err := New(DefaultConfig()).Run(context.Background(), qrels.Qrels{"multi": {"video1", "video2"}}, &stubRetriever{})
	assert.ErrorIs(t, err, ErrNoQueries)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultConfig()).Run(ctx, qrels.Qrels{"a": {"video1"}}, &stubRetriever{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultTopK, cfg.TopK)
	assert.Positive(t, cfg.Concurrency)
	assert.True(t, cfg.SingleResultOnly)

	fixed := Config{TopK: -1, Concurrency: 0, WarmupRuns: -3}.withDefaults()
	assert.Equal(t, DefaultTopK, fixed.TopK)
	assert.Positive(t, fixed.Concurrency)
	assert.Zero(t, fixed.WarmupRuns)
}

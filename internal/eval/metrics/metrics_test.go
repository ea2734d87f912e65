package metrics

import (
	"math"
	"testing"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(v ...int64) []resultset.VideoID {
	out := make([]resultset.VideoID, len(v))
	for i, id := range v {
		out[i] = resultset.VideoID(id)
	}
	return out
}

func TestAveragePrecision(t *testing.T) {
	tests := []struct {
		name        string
		groundTruth resultset.VideoID
		predictions []resultset.VideoID
		want        float64
	}{
		{
			name:        "empty",
			groundTruth: 1,
			predictions: nil,
			want:        0,
		},
		{
			name:        "hit at rank 1",
			groundTruth: 1,
			predictions: ids(1, 2, 3),
			want:        1.0,
		},
		{
			name:        "hit at rank 2",
			groundTruth: 42,
			predictions: ids(7, 42, 3),
			want:        0.5,
		},
		{
			name:        "hit at rank 10",
			groundTruth: 10,
			predictions: ids(1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
			want:        0.1,
		},
		{
			name:        "absent",
			groundTruth: 99,
			predictions: ids(1, 2, 3),
			want:        0,
		},
		{
			name:        "duplicate hits",
			groundTruth: 5,
			predictions: ids(5, 1, 5),
			// Precision at hits: 1/1, 2/3
			want: (1.0 + 2.0/3.0) / 2.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AveragePrecision(tt.groundTruth, tt.predictions)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestReciprocalRank(t *testing.T) {
	assert.InDelta(t, 1.0, ReciprocalRank(1, ids(1, 2)), 1e-9)
	assert.InDelta(t, 1.0/3.0, ReciprocalRank(3, ids(1, 2, 3)), 1e-9)
	assert.Zero(t, ReciprocalRank(4, ids(1, 2, 3)))
	assert.Zero(t, ReciprocalRank(4, nil))
}

func TestNDCGAtK(t *testing.T) {
	tests := []struct {
		name        string
		groundTruth resultset.VideoID
		predictions []resultset.VideoID
		k           int
		want        float64
	}{
		{
			name:        "empty predictions",
			groundTruth: 1,
			predictions: nil,
			k:           10,
			want:        0,
		},
		{
			name:        "k=0",
			groundTruth: 1,
			predictions: ids(1, 2),
			k:           0,
			want:        0,
		},
		{
			name:        "ideal ranking",
			groundTruth: 1,
			predictions: ids(1, 2, 3),
			k:           10,
			want:        1.0,
		},
		{
			name:        "ideal ranking k=1",
			groundTruth: 1,
			predictions: ids(1, 2, 3),
			k:           1,
			want:        1.0,
		},
		{
			name:        "hit at rank 2",
			groundTruth: 42,
			predictions: ids(7, 42, 3),
			k:           10,
			want:        1.0 / math.Log2(3),
		},
		{
			name:        "hit beyond cutoff",
			groundTruth: 42,
			predictions: ids(7, 8, 42),
			k:           2,
			want:        0,
		},
		{
			name:        "absent",
			groundTruth: 42,
			predictions: ids(7, 8, 9),
			k:           10,
			want:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NDCGAtK(tt.groundTruth, tt.predictions, tt.k)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNDCGAtK_ScenarioValue(t *testing.T) {
	got := NDCGAtK(42, ids(7, 42, 3), 10)
	assert.InDelta(t, 0.6309, got, 1e-4)
}

func TestRecallAtK(t *testing.T) {
	tests := []struct {
		name        string
		groundTruth resultset.VideoID
		predictions []resultset.VideoID
		k           int
		want        float64
	}{
		{name: "k=0", groundTruth: 1, predictions: ids(1), k: 0, want: 0},
		{name: "empty", groundTruth: 1, predictions: nil, k: 5, want: 0},
		{name: "hit at 1", groundTruth: 1, predictions: ids(1, 2, 3), k: 1, want: 1},
		{name: "hit inside cutoff", groundTruth: 3, predictions: ids(1, 2, 3), k: 5, want: 1},
		{name: "hit outside cutoff", groundTruth: 3, predictions: ids(1, 2, 3), k: 2, want: 0},
		{name: "absent", groundTruth: 9, predictions: ids(1, 2, 3), k: 10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecallAtK(tt.groundTruth, tt.predictions, tt.k))
		})
	}
}

func TestRecallAtK_MonotonicInK(t *testing.T) {
	predictions := ids(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	for gt := int64(0); gt <= 11; gt++ {
		r1 := RecallAtK(resultset.VideoID(gt), predictions, 1)
		r5 := RecallAtK(resultset.VideoID(gt), predictions, 5)
		r10 := RecallAtK(resultset.VideoID(gt), predictions, 10)

		assert.LessOrEqual(t, r1, r5, "ground truth %d", gt)
		assert.LessOrEqual(t, r5, r10, "ground truth %d", gt)
	}
}

func TestComputeAll(t *testing.T) {
	rec, err := resultset.NewQueryRecord(resultset.Row{
		Query:       "a dog catches a frisbee",
		GroundTruth: "video42",
		Top10: []resultset.Candidate{
			{ID: 7, Score: 0.9},
			{ID: 42, Score: 0.8},
			{ID: 3, Score: 0.5},
		},
	})
	require.NoError(t, err)

	scores := ComputeAll(rec)

	assert.Equal(t, 0.0, scores.Recall[1])
	assert.Equal(t, 1.0, scores.Recall[5])
	assert.Equal(t, 1.0, scores.Recall[10])
	assert.Zero(t, scores.NDCG[1])
	assert.InDelta(t, 0.6309, scores.NDCG[5], 1e-4)
	assert.InDelta(t, 0.6309, scores.NDCG[10], 1e-4)
	assert.InDelta(t, 0.5, scores.AP, 1e-9)
	assert.InDelta(t, 0.5, scores.RR, 1e-9)
}

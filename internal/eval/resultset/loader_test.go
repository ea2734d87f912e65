package resultset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cands(ids ...int64) []Candidate {
	out := make([]Candidate, len(ids))
	for i, id := range ids {
		out[i] = Candidate{ID: VideoID(id), Score: 1.0 - float64(i)*0.05}
	}
	return out
}

func TestParseRelevanceTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		want    VideoID
		wantErr bool
	}{
		{name: "valid", tag: "video42", want: 42},
		{name: "zero", tag: "video0", want: 0},
		{name: "large id", tag: "video7020", want: 7020},
		{name: "leading whitespace", tag: " video7", wantErr: true},
		{name: "trailing whitespace", tag: "video7 ", wantErr: true},
		{name: "wrong prefix", tag: "clip42", wantErr: true},
		{name: "no id", tag: "video", wantErr: true},
		{name: "not an integer", tag: "videoabc", wantErr: true},
		{name: "negative", tag: "video-3", wantErr: true},
		{name: "empty", tag: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelevanceTag(tt.tag)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedRelevanceTag)

				var mre *MalformedRelevanceTagError
				require.True(t, errors.As(err, &mre))
				assert.Equal(t, tt.tag, mre.Tag)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("derives prefix views from top10", func(t *testing.T) {
		rs, err := Load([]Row{{
			Query:       "a man is cooking",
			GroundTruth: "video3",
			Top10:       cands(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11),
		}})
		require.NoError(t, err)
		require.Equal(t, 1, rs.Len())

		rec := rs.Records()[0]
		assert.Equal(t, VideoID(3), rec.GroundTruth)
		assert.Len(t, rec.Top1, 1)
		assert.Len(t, rec.Top5, 5)
		assert.Len(t, rec.Top10, 10)
		assert.Equal(t, rec.Top10[:5], rec.Top5)
		assert.Equal(t, rec.Top10[:1], rec.Top1)
	})

	t.Run("uses the deepest list provided", func(t *testing.T) {
		rs, err := Load([]Row{{
			GroundTruth: "video1",
			Top1:        cands(1),
			Top5:        cands(1, 2, 3),
		}})
		require.NoError(t, err)

		rec := rs.Records()[0]
		assert.Equal(t, []VideoID{1, 2, 3}, rec.IDs(10))
		assert.Len(t, rec.Top1, 1)
	})

	t.Run("keeps retrieval order", func(t *testing.T) {
		rs, err := Load([]Row{{
			GroundTruth: "video1",
			Top10: []Candidate{
				{ID: 1, Score: 0.5},
				{ID: 2, Score: 0.9},
				{ID: 3, Score: 0.5},
				{ID: 4, Score: 0.7},
			},
		}})
		require.NoError(t, err)
		assert.Equal(t, []VideoID{1, 2, 3, 4}, rs.Records()[0].IDs(10))
	})

	t.Run("distance scores are not reordered", func(t *testing.T) {
		rs, err := Load([]Row{{
			GroundTruth: "video7",
			Top10:       []Candidate{{ID: 7, Score: 0.1}, {ID: 42, Score: 0.3}, {ID: 3, Score: 0.9}},
		}})
		require.NoError(t, err)

		rec := rs.Records()[0]
		assert.Equal(t, []VideoID{7, 42, 3}, rec.IDs(10))
		assert.Equal(t, VideoID(7), rec.Top1[0].ID)
	})

	t.Run("truncates to max depth", func(t *testing.T) {
		rs, err := Load([]Row{{GroundTruth: "video1", Top10: cands(12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1)}})
		require.NoError(t, err)
		assert.Equal(t, []VideoID{12, 11, 10, 9, 8, 7, 6, 5, 4, 3}, rs.Records()[0].IDs(10))
	})

	t.Run("does not mutate input rows", func(t *testing.T) {
		in := []Candidate{{ID: 1, Score: 0.1}, {ID: 2, Score: 0.9}}
		_, err := Load([]Row{{GroundTruth: "video1", Top10: in}})
		require.NoError(t, err)
		assert.Equal(t, VideoID(1), in[0].ID)
	})

	t.Run("malformed tag aborts the batch", func(t *testing.T) {
		rs, err := Load([]Row{
			{Query: "ok", GroundTruth: "video1", Top10: cands(1)},
			{Query: "bad", GroundTruth: "vid1", Top10: cands(1)},
		})
		assert.Nil(t, rs)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedRelevanceTag)
		assert.Contains(t, err.Error(), "row 1")
		assert.Contains(t, err.Error(), `"bad"`)
	})

	t.Run("empty candidates still load", func(t *testing.T) {
		rs, err := Load([]Row{{GroundTruth: "video9"}})
		require.NoError(t, err)
		assert.False(t, rs.Records()[0].HasCandidates())
		assert.Empty(t, rs.Records()[0].IDs(5))
	})

	t.Run("prefix views cannot be appended into", func(t *testing.T) {
		rs, err := Load([]Row{{GroundTruth: "video1", Top10: cands(1, 2, 3, 4, 5, 6)}})
		require.NoError(t, err)

		rec := rs.Records()[0]
		_ = append(rec.Top1, Candidate{ID: 99})
		assert.Equal(t, VideoID(2), rec.Top10[1].ID)
	})
}

func TestQueryRecordAt(t *testing.T) {
	rec, err := NewQueryRecord(Row{GroundTruth: "video1", Top10: cands(1, 2, 3)})
	require.NoError(t, err)

	assert.Nil(t, rec.At(0))
	assert.Len(t, rec.At(2), 2)
	assert.Len(t, rec.At(50), 3)
}

func TestDecodeRows(t *testing.T) {
	data := `[
		{"query": "q1", "ground_truth": "video7", "top10": [[7, 0.9], [8, 0.4]]},
		{"query": "q2", "ground_truth": "video8", "top10": [{"id": "video8", "score": 0.3}, {"id": "12", "score": 0.2}]}
	]`

	rows, err := DecodeRows(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []Candidate{{ID: 7, Score: 0.9}, {ID: 8, Score: 0.4}}, rows[0].Top10)
	assert.Equal(t, []Candidate{{ID: 8, Score: 0.3}, {ID: 12, Score: 0.2}}, rows[1].Top10)

	_, err = DecodeRows(strings.NewReader(`[{"top10": [[1]]}]`))
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"query":"q","ground_truth":"video2","top10":[[2,1.0]]}]`), 0644))

	rs, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, rs.Len())

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestVideoIDString(t *testing.T) {
	assert.Equal(t, "video42", VideoID(42).String())
}

package clicklog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/DjordjeVuckovic/video-hunter/internal/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	e, err := NewEntry(" a man is cooking ", "./test_1k_compress/video12.mp4", []string{
		"./test_1k_compress/video3.mp4",
		"./test_1k_compress/video12.mp4",
	})
	require.NoError(t, err)

	assert.Equal(t, "a man is cooking", e.Query)
	assert.Equal(t, "video12", e.ClickedVideo)
	assert.Equal(t, []string{"video3", "video12"}, e.Ranking)
	assert.Equal(t, 2, e.ClickedRank())
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, "UTC", e.Timestamp.Location().String())
}

func TestNewEntry_Validation(t *testing.T) {
	var ve *apperr.ValidationError

	_, err := NewEntry("", "video1.mp4", nil)
	assert.True(t, errors.As(err, &ve))

	_, err = NewEntry("q", " ", nil)
	assert.True(t, errors.As(err, &ve))
}

func TestClickedRank_NotShown(t *testing.T) {
	e := Entry{ClickedVideo: "video9", Ranking: []string{"video1"}}
	assert.Zero(t, e.ClickedRank())
}

func TestFileStore_AppendAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clicks.json")
	store := NewFileStore(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := NewEntry("q", "video1.mp4", []string{"video1.mp4"})
			assert.NoError(t, err)
			assert.NoError(t, store.Append(context.Background(), e))
		}()
	}
	wg.Wait()

	entries, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, entries, 20)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 20, strings.Count(string(data), "\n"))
}

func TestDecode(t *testing.T) {
	in := `{"timestamp":"2024-04-01T10:00:00Z","query":"q1","clicked_video":"video1","ranking":["video1","video2"]}

{"timestamp":"2024-04-01T10:01:00Z","query":"q2","clicked_video":"video5","ranking":["video4"]}
`
	entries, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "video5", entries[1].ClickedVideo)

	_, err = Decode(strings.NewReader("{not json}\n"))
	assert.ErrorContains(t, err, "line 1")
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	st := Summarize([]Entry{
		{Query: "a", ClickedVideo: "video1", Ranking: []string{"video1", "video2"}},
		{Query: "a", ClickedVideo: "video2", Ranking: []string{"video1", "video2"}},
		{Query: "b", ClickedVideo: "video9", Ranking: []string{"video1"}},
	})

	assert.Equal(t, 3, st.Entries)
	assert.Equal(t, 2, st.Queries)
	assert.Equal(t, 1, st.OutsideRanking)
	assert.InDelta(t, (1+0.5+0)/3.0, st.ClickMRR, 1e-9)
	assert.InDelta(t, 1.5, st.MeanClickRank, 1e-9)

	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestNewFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultFileName, NewFileStore("").Path())
}

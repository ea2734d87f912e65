package search

import (
	"path/filepath"
	"testing"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoPath(t *testing.T) {
	assert.Equal(t, filepath.Join("test_1k_compress", "video7020.mp4"), VideoPath("test_1k_compress", 7020))
}

func TestVideoIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"./test_1k_compress/video123.mp4", "video123"},
		{"video5.mp4", "video5"},
		{`C:\videos\video9.mp4`, "video9"},
		{"/abs/path/video1", "video1"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, VideoIDFromPath(tt.path))
		})
	}
}

func TestParseVideoPath(t *testing.T) {
	id, err := ParseVideoPath("videos/video42.mp4")
	require.NoError(t, err)
	assert.Equal(t, resultset.VideoID(42), id)

	_, err = ParseVideoPath("videos/clip42.mp4")
	assert.ErrorIs(t, err, resultset.ErrMalformedRelevanceTag)
}

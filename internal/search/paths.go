package search

import (
	"path/filepath"
	"strings"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
)

const VideoExt = ".mp4"

// VideoPath returns <folder>/video<id>.mp4.
func VideoPath(folder string, id resultset.VideoID) string {
	return filepath.Join(folder, id.String()+VideoExt)
}

// VideoIDFromPath returns the file name without directory or extension,
// e.g. "video123" for "videos/video123.mp4".
func VideoIDFromPath(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseVideoPath resolves a video path to its numeric id.
func ParseVideoPath(path string) (resultset.VideoID, error) {
	return resultset.ParseRelevanceTag(VideoIDFromPath(path))
}

package clicklog

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/video-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/video-hunter/internal/search"
	"github.com/google/uuid"
)

// Entry records that a user opened one video from a ranked result list.
// ClickedVideo and Ranking hold video tags such as "video123".
type Entry struct {
	ID           uuid.UUID `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Query        string    `json:"query"`
	ClickedVideo string    `json:"clicked_video"`
	Ranking      []string  `json:"ranking"`
}

type Store interface {
	Append(ctx context.Context, e Entry) error
}

// NewEntry builds an entry from the clicked file and the displayed result
// paths.
func NewEntry(query, videoPath string, rankingPaths []string) (Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Entry{}, apperr.NewValidation("query is required")
	}
	if strings.TrimSpace(videoPath) == "" {
		return Entry{}, apperr.NewValidation("video_path is required")
	}

	ranking := make([]string, len(rankingPaths))
	for i, p := range rankingPaths {
		ranking[i] = search.VideoIDFromPath(p)
	}

	return Entry{
		ID:           uuid.New(),
		Timestamp:    time.Now().UTC(),
		Query:        query,
		ClickedVideo: search.VideoIDFromPath(videoPath),
		Ranking:      ranking,
	}, nil
}

// ClickedRank is the 1-based position of the clicked video in the ranking,
// or 0 if it was not shown.
func (e Entry) ClickedRank() int {
	return slices.Index(e.Ranking, e.ClickedVideo) + 1
}

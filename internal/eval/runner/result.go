package runner

import (
	"time"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
)

type QueryResult struct {
	Query       string
	GroundTruth string
	Candidates  []resultset.Candidate
	Latency     time.Duration
	Error       error
}

type Result struct {
	Queries    []QueryResult
	Latency    LatencyStats
	ErrorCount int
	Config     Config
}

// Rows converts the run into loader input. Failed queries yield rows without
// candidates so the aggregator counts them as skipped.
func (r *Result) Rows() []resultset.Row {
	rows := make([]resultset.Row, len(r.Queries))
	for i, q := range r.Queries {
		rows[i] = resultset.Row{
			Query:       q.Query,
			GroundTruth: q.GroundTruth,
			Top10:       q.Candidates,
		}
	}
	return rows
}

package report

import (
	"fmt"
	"runtime"
	"time"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"github.com/DjordjeVuckovic/video-hunter/internal/eval/runner"
	"github.com/google/uuid"
)

const KeyMAP = "map"

func RecallKey(k int) string { return fmt.Sprintf("recall@%d", k) }
func NDCGKey(k int) string   { return fmt.Sprintf("ndcg@%d", k) }

// ReportKeys lists the ScoreReport keys in display order.
func ReportKeys() []string {
	keys := make([]string, 0, 2*len(resultset.Cutoffs)+1)
	for _, k := range resultset.Cutoffs {
		keys = append(keys, RecallKey(k))
	}
	keys = append(keys, KeyMAP)
	for _, k := range resultset.Cutoffs {
		keys = append(keys, NDCGKey(k))
	}
	return keys
}

// ScoreReport maps a metric name (recall@1, map, ndcg@5, ...) to its corpus mean.
type ScoreReport map[string]float64

type Summary struct {
	Scores         ScoreReport `json:"scores"`
	MRR            float64     `json:"mrr"`
	QueryCount     int         `json:"query_count"`
	Included       int         `json:"included"`
	Skipped        int         `json:"skipped"`
	SkippedQueries []string    `json:"skipped_queries,omitempty"`
	PerQuery       []Entry     `json:"per_query"`
}

type Entry struct {
	Query       string            `json:"query"`
	GroundTruth resultset.VideoID `json:"ground_truth"`
	Recall      map[int]float64   `json:"recall"`
	NDCG        map[int]float64   `json:"ndcg"`
	AP          float64           `json:"ap"`
	RR          float64           `json:"rr"`
	Hits        int               `json:"hits"`
}

type Report struct {
	Meta    Meta                 `json:"meta"`
	Summary *Summary             `json:"summary"`
	Latency *runner.LatencyStats `json:"latency,omitempty"`
}

type Meta struct {
	RunID       uuid.UUID       `json:"run_id"`
	JobName     string          `json:"job_name,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
	Store       string          `json:"store,omitempty"`
	Environment EnvironmentInfo `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

// New wraps a summary with run metadata.
func New(jobName, store string, s *Summary) *Report {
	return &Report{
		Meta: Meta{
			RunID:       uuid.New(),
			JobName:     jobName,
			Timestamp:   time.Now().UTC(),
			Store:       store,
			Environment: NewEnvironmentInfo(),
		},
		Summary: s,
	}
}

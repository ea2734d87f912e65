package resultset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// Cutoffs are the ranked-list views every QueryRecord carries.
var Cutoffs = []int{1, 5, 10}

// MaxDepth is the deepest cutoff kept from the retrieval engine output.
const MaxDepth = 10

// VideoID identifies a video in the corpus (video<N>.mp4 has ID N).
type VideoID int64

func (id VideoID) String() string {
	return RelevanceTagPrefix + strconv.FormatInt(int64(id), 10)
}

// Candidate is a single ranked retrieval hit.
type Candidate struct {
	ID    VideoID `json:"id"`
	Score float64 `json:"score"`
}

// MarshalJSON encodes a candidate as an [id, score] pair, the shape the
// retrieval engine emits.
func (c Candidate) MarshalJSON() ([]byte, error) {
	return sonic.Marshal([2]any{int64(c.ID), c.Score})
}

// UnmarshalJSON accepts either an [id, score] pair or an {"id":..,"score":..}
// object. The id may be a number, a numeric string or a "video<N>" tag.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var pair []any
		if err := sonic.UnmarshalString(trimmed, &pair); err != nil {
			return fmt.Errorf("decode candidate pair: %w", err)
		}
		if len(pair) != 2 {
			return fmt.Errorf("candidate pair must have 2 elements, got %d", len(pair))
		}
		id, err := candidateID(pair[0])
		if err != nil {
			return err
		}
		score, ok := pair[1].(float64)
		if !ok {
			return fmt.Errorf("candidate score must be a number, got %T", pair[1])
		}
		c.ID, c.Score = id, score
		return nil
	}

	var obj struct {
		ID    any     `json:"id"`
		Score float64 `json:"score"`
	}
	if err := sonic.UnmarshalString(trimmed, &obj); err != nil {
		return fmt.Errorf("decode candidate object: %w", err)
	}
	id, err := candidateID(obj.ID)
	if err != nil {
		return err
	}
	c.ID, c.Score = id, obj.Score
	return nil
}

func candidateID(v any) (VideoID, error) {
	switch id := v.(type) {
	case float64:
		if id != float64(int64(id)) {
			return 0, fmt.Errorf("candidate id %v is not an integer", id)
		}
		return VideoID(id), nil
	case string:
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			return VideoID(n), nil
		}
		return ParseRelevanceTag(id)
	default:
		return 0, fmt.Errorf("unsupported candidate id type %T", v)
	}
}

// Row is the raw per-query output handed over by the retrieval engine.
// Any of the ranked fields may be empty; the longest one is treated as the
// canonical ranking.
type Row struct {
	Query       string      `json:"query"`
	GroundTruth string      `json:"ground_truth"`
	Top1        []Candidate `json:"top1,omitempty"`
	Top5        []Candidate `json:"top5,omitempty"`
	Top10       []Candidate `json:"top10,omitempty"`
}

// QueryRecord is a validated, strongly-typed evaluation row.
// Top1 and Top5 are prefix views of Top10.
type QueryRecord struct {
	Query       string
	GroundTruth VideoID
	Top1        []Candidate
	Top5        []Candidate
	Top10       []Candidate
}

// At returns the ranked candidates cut off at k (k is clamped to MaxDepth).
func (r QueryRecord) At(k int) []Candidate {
	if k <= 0 {
		return nil
	}
	return r.Top10[:min(k, len(r.Top10))]
}

// IDs strips scores from the first k candidates.
func (r QueryRecord) IDs(k int) []VideoID {
	ranked := r.At(k)
	ids := make([]VideoID, len(ranked))
	for i, c := range ranked {
		ids[i] = c.ID
	}
	return ids
}

// HasCandidates reports whether the engine returned anything for the query.
func (r QueryRecord) HasCandidates() bool {
	return len(r.Top10) > 0
}

// ResultSet is the immutable collection of records of one evaluation run.
type ResultSet struct {
	records []QueryRecord
}

// Len returns the number of loaded records.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.records)
}

// Records returns the records in arrival order. The returned slice is a copy;
// candidate slices are capacity-limited views and cannot be appended into.
func (rs *ResultSet) Records() []QueryRecord {
	if rs == nil {
		return nil
	}
	out := make([]QueryRecord, len(rs.records))
	copy(out, rs.records)
	return out
}

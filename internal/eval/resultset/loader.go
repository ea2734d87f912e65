package resultset

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

const RelevanceTagPrefix = "video"

// ParseRelevanceTag extracts the video id from a "video<N>" tag. The tag must
// start with the prefix exactly; surrounding whitespace is rejected.
func ParseRelevanceTag(tag string) (VideoID, error) {
	rest, ok := strings.CutPrefix(tag, RelevanceTagPrefix)
	if !ok {
		return 0, &MalformedRelevanceTagError{Tag: tag, Reason: "missing " + RelevanceTagPrefix + " prefix"}
	}
	if rest == "" {
		return 0, &MalformedRelevanceTagError{Tag: tag, Reason: "missing id"}
	}

	n, err := strconv.ParseUint(rest, 10, 63)
	if err != nil {
		return 0, &MalformedRelevanceTagError{Tag: tag, Reason: "id is not an integer", Err: err}
	}

	return VideoID(n), nil
}

// Load validates raw rows into a ResultSet. A single malformed relevance tag
// fails the whole batch.
func Load(rows []Row) (*ResultSet, error) {
	records := make([]QueryRecord, 0, len(rows))

	for i, row := range rows {
		rec, err := NewQueryRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d (query %q): %w", i, row.Query, err)
		}
		records = append(records, rec)
	}

	return &ResultSet{records: records}, nil
}

// NewQueryRecord builds a record from one raw row.
func NewQueryRecord(row Row) (QueryRecord, error) {
	gt, err := ParseRelevanceTag(row.GroundTruth)
	if err != nil {
		return QueryRecord{}, err
	}

	ranked := canonicalRanking(row)

	return QueryRecord{
		Query:       row.Query,
		GroundTruth: gt,
		Top1:        prefix(ranked, 1),
		Top5:        prefix(ranked, 5),
		Top10:       prefix(ranked, 10),
	}, nil
}

// canonicalRanking picks the deepest list the engine returned. List position
// is the rank: scores are carried along but never used to reorder, since some
// engines report distances where smaller is better.
func canonicalRanking(row Row) []Candidate {
	src := row.Top10
	for _, l := range [][]Candidate{row.Top5, row.Top1} {
		if len(l) > len(src) {
			src = l
		}
	}

	return prefix(slices.Clone(src), MaxDepth)
}

func prefix(c []Candidate, k int) []Candidate {
	n := min(k, len(c))
	return c[:n:n]
}

// DecodeRows reads a JSON array of raw rows.
func DecodeRows(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	var rows []Row
	if err := sonic.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse rows: %w", err)
	}
	return rows, nil
}

// LoadFromFile decodes a JSON results file and loads it.
func LoadFromFile(path string) (*ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	rows, err := DecodeRows(f)
	if err != nil {
		return nil, err
	}
	return Load(rows)
}

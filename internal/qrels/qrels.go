// Package qrels loads relevance annotations: for each query text, the videos
// judged relevant to it.
package qrels

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bytedance/sonic"
)

// Qrels maps a query to its relevant video tags ("video<N>"), in annotation order.
type Qrels map[string][]string

type annotationFile struct {
	Annotations []Annotation `json:"annotations"`
}

type Annotation struct {
	Query       string `json:"query"`
	RelevantIDs string `json:"relevant_ids"`
}

func Load(path string) (Qrels, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotations: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a FIRE-style annotations document and groups it by query.
func Decode(r io.Reader) (Qrels, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read annotations: %w", err)
	}

	var af annotationFile
	if err := sonic.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("parse annotations: %w", err)
	}

	q := make(Qrels)
	for i, a := range af.Annotations {
		if a.Query == "" {
			return nil, fmt.Errorf("annotation at index %d has no query", i)
		}
		q[a.Query] = append(q[a.Query], a.RelevantIDs)
	}
	return q, nil
}

// FilterSingleResult keeps the queries with exactly one relevant video.
func FilterSingleResult(q Qrels) Qrels {
	out := make(Qrels)
	for query, rel := range q {
		if len(rel) == 1 {
			out[query] = rel
		}
	}
	return out
}

// Queries returns the query texts sorted, for stable iteration.
func (q Qrels) Queries() []string {
	queries := make([]string, 0, len(q))
	for query := range q {
		queries = append(queries, query)
	}
	slices.Sort(queries)
	return queries
}

type Stats struct {
	Queries      int `json:"queries"`
	SingleResult int `json:"single_result"`
	Annotations  int `json:"annotations"`
	MaxPerQuery  int `json:"max_per_query"`
}

func (q Qrels) Stats() Stats {
	s := Stats{Queries: len(q)}
	for _, rel := range q {
		s.Annotations += len(rel)
		s.MaxPerQuery = max(s.MaxPerQuery, len(rel))
		if len(rel) == 1 {
			s.SingleResult++
		}
	}
	return s
}

package report

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/metrics"
	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyResultSet is returned when no query is left to average over.
var ErrEmptyResultSet = errors.New("empty result set")

// Aggregate scores every record and reduces the per-query scores into corpus
// means. Records without candidates are skipped and excluded from every mean.
func Aggregate(rs *resultset.ResultSet) (*Summary, error) {
	records := rs.Records()
	scored := make([]*Entry, len(records))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, rec := range records {
		if !rec.HasCandidates() {
			continue
		}
		g.Go(func() error {
			e := newEntry(rec, metrics.ComputeAll(rec))
			scored[i] = &e
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score queries: %w", err)
	}

	s := &Summary{QueryCount: len(records)}

	for i, e := range scored {
		if e == nil {
			s.Skipped++
			s.SkippedQueries = append(s.SkippedQueries, records[i].Query)
			continue
		}
		s.PerQuery = append(s.PerQuery, *e)
	}

	s.Included = len(s.PerQuery)
	if s.Included == 0 {
		return nil, fmt.Errorf("%w: %d queries loaded, %d skipped", ErrEmptyResultSet, s.QueryCount, s.Skipped)
	}

	s.Scores = reduce(s.PerQuery)
	s.MRR = mean(s.PerQuery, func(e Entry) float64 { return e.RR })

	return s, nil
}

func reduce(entries []Entry) ScoreReport {
	scores := make(ScoreReport, 2*len(resultset.Cutoffs)+1)

	for _, k := range resultset.Cutoffs {
		scores[RecallKey(k)] = mean(entries, func(e Entry) float64 { return e.Recall[k] })
		scores[NDCGKey(k)] = mean(entries, func(e Entry) float64 { return e.NDCG[k] })
	}
	scores[KeyMAP] = mean(entries, func(e Entry) float64 { return e.AP })

	return scores
}

func mean(entries []Entry, value func(Entry) float64) float64 {
	xs := make([]float64, len(entries))
	for i, e := range entries {
		xs[i] = value(e)
	}
	return stat.Mean(xs, nil)
}

func newEntry(rec resultset.QueryRecord, scores metrics.ScoreSet) Entry {
	return Entry{
		Query:       rec.Query,
		GroundTruth: rec.GroundTruth,
		Recall:      scores.Recall,
		NDCG:        scores.NDCG,
		AP:          scores.AP,
		RR:          scores.RR,
		Hits:        len(rec.Top10),
	}
}

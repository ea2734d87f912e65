package clicklog

import "gonum.org/v1/gonum/stat"

type Stats struct {
	Entries        int     `json:"entries"`
	Queries        int     `json:"queries"`
	OutsideRanking int     `json:"outside_ranking"`
	ClickMRR       float64 `json:"click_mrr"`
	MeanClickRank  float64 `json:"mean_click_rank"`
}

// Summarize treats every click as the single relevant result of its query.
func Summarize(entries []Entry) Stats {
	st := Stats{Entries: len(entries)}

	queries := make(map[string]struct{})
	var rr, ranks []float64
	for _, e := range entries {
		queries[e.Query] = struct{}{}

		rank := e.ClickedRank()
		if rank == 0 {
			st.OutsideRanking++
			rr = append(rr, 0)
			continue
		}
		rr = append(rr, 1/float64(rank))
		ranks = append(ranks, float64(rank))
	}
	st.Queries = len(queries)

	if len(rr) > 0 {
		st.ClickMRR = stat.Mean(rr, nil)
	}
	if len(ranks) > 0 {
		st.MeanClickRank = stat.Mean(ranks, nil)
	}
	return st
}

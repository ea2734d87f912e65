package metrics

import "github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"

type ScoreSet struct {
	Recall map[int]float64 // K -> Recall@K
	NDCG   map[int]float64 // K -> NDCG@K
	AP     float64         // Average Precision over top10
	RR     float64         // Reciprocal Rank over top10
}

// Compute scores one record. Recall@K uses the record's K-truncated view,
// NDCG@K and AP use the top10 list.
func Compute(rec resultset.QueryRecord, kValues []int) ScoreSet {
	s := ScoreSet{
		Recall: make(map[int]float64, len(kValues)),
		NDCG:   make(map[int]float64, len(kValues)),
	}

	top10 := rec.IDs(resultset.MaxDepth)

	for _, k := range kValues {
		s.Recall[k] = RecallAtK(rec.GroundTruth, rec.IDs(k), k)
		s.NDCG[k] = NDCGAtK(rec.GroundTruth, top10, k)
	}

	s.AP = AveragePrecision(rec.GroundTruth, top10)
	s.RR = ReciprocalRank(rec.GroundTruth, top10)

	return s
}

// ComputeAll scores a record at the standard cutoffs {1, 5, 10}.
func ComputeAll(rec resultset.QueryRecord) ScoreSet {
	return Compute(rec, resultset.Cutoffs)
}

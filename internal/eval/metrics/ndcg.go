package metrics

import (
	"math"
	"slices"

	"github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"
)

// NDCGAtK computes Normalized Discounted Cumulative Gain at rank K with binary
// relevance: DCG = sum(rel_i / log2(i+2)) for i in 0..K-1. The ideal ordering
// is the same relevance vector sorted descending.
func NDCGAtK(groundTruth resultset.VideoID, predictions []resultset.VideoID, k int) float64 {
	if k <= 0 || len(predictions) == 0 {
		return 0
	}

	rels := relevanceVector(groundTruth, predictions, k)

	idcg := dcg(idealOrder(rels))
	if idcg == 0 {
		return 0
	}

	return dcg(rels) / idcg
}

func relevanceVector(groundTruth resultset.VideoID, predictions []resultset.VideoID, k int) []int {
	n := min(k, len(predictions))
	rels := make([]int, n)

	for i := 0; i < n; i++ {
		if predictions[i] == groundTruth {
			rels[i] = 1
		}
	}

	return rels
}

func idealOrder(rels []int) []int {
	ideal := slices.Clone(rels)
	slices.Sort(ideal)
	slices.Reverse(ideal)
	return ideal
}

func dcg(rels []int) float64 {
	var sum float64
	for i, rel := range rels {
		sum += float64(rel) / math.Log2(float64(i+2))
	}
	return sum
}

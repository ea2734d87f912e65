package metrics

import "github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"

// RecallAtK is 1 when the ground truth is among the first K predictions, else 0.
func RecallAtK(groundTruth resultset.VideoID, predictions []resultset.VideoID, k int) float64 {
	if k <= 0 {
		return 0
	}

	n := min(k, len(predictions))
	for i := 0; i < n; i++ {
		if predictions[i] == groundTruth {
			return 1
		}
	}

	return 0
}

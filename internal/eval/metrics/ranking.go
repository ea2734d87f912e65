package metrics

import "github.com/DjordjeVuckovic/video-hunter/internal/eval/resultset"

// AveragePrecision computes the mean of precision values at each rank where the
// ground truth appears. With a single relevant video this is 1/rank of the
// first hit, or 0 when it is missing.
func AveragePrecision(groundTruth resultset.VideoID, predictions []resultset.VideoID) float64 {
	var sumPrecision float64
	var hits int

	for i, id := range predictions {
		if id == groundTruth {
			hits++
			sumPrecision += float64(hits) / float64(i+1)
		}
	}

	if hits == 0 {
		return 0
	}

	return sumPrecision / float64(hits)
}

// ReciprocalRank returns 1/rank of the first hit.
func ReciprocalRank(groundTruth resultset.VideoID, predictions []resultset.VideoID) float64 {
	for i, id := range predictions {
		if id == groundTruth {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

package pulse

import (
	"math"

	"github.com/vietddude/blockpulse/internal/core/domain"
)

// Intervals returns the differences between consecutive samples.
//
// In fetch_order mode every neighbouring pair of the collected sequence is used, so a skipped
// block folds its two neighbours into one longer interval. In adjacent mode a pair is only used
// when the block numbers are consecutive.
func Intervals(samples []domain.BlockSample, mode domain.PairingMode) []int64 {
	if len(samples) < 2 {
		return nil
	}

	out := make([]int64, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		if mode == domain.PairingAdjacent && cur.Number != prev.Number+1 {
			continue
		}
		out = append(out, int64(cur.Timestamp)-int64(prev.Timestamp))
	}
	return out
}

// MeanStdDev returns the arithmetic mean and the population standard deviation of xs.
func MeanStdDev(xs []int64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}

	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	mean = sum / float64(len(xs))

	var sq float64
	for _, x := range xs {
		d := float64(x) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(xs)))
}

// Score maps relative jitter to a value in [0, 100] rounded to 2 decimal places.
// mean must be non-zero.
func Score(mean, std float64) float64 {
	s := 100 - (std/mean)*100
	s = math.Max(0, math.Min(100, s))
	return math.Round(s*100) / 100
}

package pulse

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vietddude/blockpulse/internal/core/domain"
)

// almostEqual returns true if a and b are within epsilon of each other.
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func samplesOf(numbers []uint64, timestamps []uint64) []domain.BlockSample {
	out := make([]domain.BlockSample, len(numbers))
	for i := range numbers {
		out[i] = domain.BlockSample{Number: numbers[i], Timestamp: timestamps[i]}
	}
	return out
}

func TestIntervals(t *testing.T) {
	// Block 12 missing from the window.
	samples := samplesOf([]uint64{10, 11, 13, 14}, []uint64{100, 112, 136, 148})

	got := Intervals(samples, domain.PairingFetchOrder)
	want := []int64{12, 24, 12}
	if len(got) != len(want) {
		t.Fatalf("fetch_order: expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fetch_order: expected %v, got %v", want, got)
		}
	}

	got = Intervals(samples, domain.PairingAdjacent)
	want = []int64{12, 12}
	if len(got) != len(want) || got[0] != 12 || got[1] != 12 {
		t.Errorf("adjacent: expected %v, got %v", want, got)
	}

	if Intervals(samples[:1], domain.PairingFetchOrder) != nil {
		t.Error("expected no intervals for a single sample")
	}
}

func TestIntervals_NonMonotonic(t *testing.T) {
	samples := samplesOf([]uint64{1, 2, 3}, []uint64{120, 110, 110})

	got := Intervals(samples, domain.PairingFetchOrder)
	if got[0] != -10 || got[1] != 0 {
		t.Errorf("expected [-10 0], got %v", got)
	}
}

func TestMeanStdDev(t *testing.T) {
	tests := []struct {
		name     string
		in       []int64
		wantMean float64
		wantStd  float64
	}{
		{"regular", []int64{12, 12, 12}, 12, 0},
		{"jitter", []int64{10, 15, 8}, 11, math.Sqrt(26.0 / 3.0)},
		{"two values", []int64{2, 4}, 3, 1},
		{"empty", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, std := MeanStdDev(tt.in)
			if !almostEqual(mean, tt.wantMean, 1e-9) {
				t.Errorf("mean: expected %v, got %v", tt.wantMean, mean)
			}
			if !almostEqual(std, tt.wantStd, 1e-9) {
				t.Errorf("std: expected %v, got %v", tt.wantStd, std)
			}
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		mean, std float64
		want      float64
	}{
		{"no jitter", 12, 0, 100},
		{"jitter", 11, math.Sqrt(26.0 / 3.0), 73.24},
		{"floored at zero", 10, 25, 0},
		{"negative mean clamped", -15, 5, 100},
		{"rounded", 3, 1, 66.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.mean, tt.std); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestScore_MonotonicInJitter(t *testing.T) {
	const mean = 12

	prev := math.Inf(1)
	for k := int64(0); k <= mean; k++ {
		intervals := []int64{mean - k, mean + k, mean - k, mean + k}
		m, std := MeanStdDev(intervals)
		if m != mean {
			t.Fatalf("expected mean %d, got %v", mean, m)
		}

		s := Score(m, std)
		if s > prev {
			t.Fatalf("score increased with jitter: k=%d score=%v prev=%v", k, s, prev)
		}
		if s < 0 || s > 100 {
			t.Fatalf("score out of range: %v", s)
		}
		prev = s
	}
}

func TestScore_MonotonicRandomShapes(t *testing.T) {
	const mean = 1000
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		// Symmetric deviations keep the mean fixed while k scales the jitter.
		deviations := make([]int64, 0, 16)
		for i := 0; i < 8; i++ {
			d := rng.Int63n(20) - 10
			deviations = append(deviations, d, -d)
		}

		prev := math.Inf(1)
		for k := int64(0); k <= 10; k++ {
			intervals := make([]int64, len(deviations))
			for i, d := range deviations {
				intervals[i] = mean + k*d
			}

			m, std := MeanStdDev(intervals)
			if m != mean {
				t.Fatalf("trial %d: expected mean %d, got %v", trial, mean, m)
			}

			s := Score(m, std)
			if s > prev {
				t.Fatalf("trial %d: score increased from %v to %v at k=%d", trial, prev, s, k)
			}
			prev = s
		}
	}
}

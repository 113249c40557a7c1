package domain

// PairingMode selects how intervals are formed from collected samples.
type PairingMode string

const (
	// PairingFetchOrder pairs consecutive samples in the order they were fetched,
	// so a skipped block merges its neighbours into one interval.
	PairingFetchOrder PairingMode = "fetch_order"

	// PairingAdjacent only pairs samples whose block numbers differ by one.
	PairingAdjacent PairingMode = "adjacent"
)

// Valid reports whether m is a known pairing mode.
func (m PairingMode) Valid() bool {
	return m == PairingFetchOrder || m == PairingAdjacent
}

// Index is the network health index computed over one window.
type Index struct {
	// Score is in [0, 100], rounded to 2 decimal places.
	Score float64 `json:"score"`

	// AvgInterval is the mean inter-block interval in seconds.
	AvgInterval float64 `json:"avg_interval"`

	// Jitter is the population standard deviation of the intervals.
	Jitter float64 `json:"jitter"`

	LatestBlock     uint64             `json:"latest_block"`
	WindowStart     uint64             `json:"window_start"`
	Samples         int                `json:"samples"`
	Intervals       []int64            `json:"intervals"`
	Skipped         int                `json:"skipped"`
	SkippedByReason map[SkipReason]int `json:"skipped_by_reason,omitempty"`
}

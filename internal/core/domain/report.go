package domain

import "time"

// ReportStatus is the outcome of one monitor cycle.
type ReportStatus string

const (
	ReportStatusOK               ReportStatus = "ok"
	ReportStatusInsufficientData ReportStatus = "insufficient_data"
	ReportStatusDegenerate       ReportStatus = "degenerate"
	ReportStatusError            ReportStatus = "error"
)

// Report is what a single monitor cycle produced.
type Report struct {
	CycleID  string        `json:"cycle_id"`
	At       time.Time     `json:"at"`
	Duration time.Duration `json:"duration"`
	Status   ReportStatus  `json:"status"`
	Index    *Index        `json:"index,omitempty"`
	Error    string        `json:"error,omitempty"`
}

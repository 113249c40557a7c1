// Package health runs the live network health monitor and serves its status.
package health

import "github.com/vietddude/blockpulse/internal/core/domain"

// SystemStatus represents the overall health state reported over HTTP.
type SystemStatus string

const (
	StatusHealthy  SystemStatus = "healthy"
	StatusDegraded SystemStatus = "degraded"
	StatusCritical SystemStatus = "critical"
	StatusUnknown  SystemStatus = "unknown"
)

// Score thresholds that map a health index to a status.
const (
	ThresholdHealthy  = 80.0
	ThresholdDegraded = 50.0
)

// StatusFromReport maps the outcome of a cycle to a system status.
func StatusFromReport(rep domain.Report) SystemStatus {
	switch rep.Status {
	case domain.ReportStatusOK:
		if rep.Index == nil {
			return StatusUnknown
		}
		switch {
		case rep.Index.Score >= ThresholdHealthy:
			return StatusHealthy
		case rep.Index.Score >= ThresholdDegraded:
			return StatusDegraded
		default:
			return StatusCritical
		}
	case domain.ReportStatusInsufficientData:
		return StatusDegraded
	case domain.ReportStatusDegenerate, domain.ReportStatusError:
		return StatusCritical
	default:
		return StatusUnknown
	}
}

// HealthReport contains the full status served on /health/detailed.
type HealthReport struct {
	SystemStatus SystemStatus   `json:"system_status"`
	Node         string         `json:"node"`
	Last         *domain.Report `json:"last,omitempty"`
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vietddude/blockpulse/internal/core/domain"
	"github.com/vietddude/blockpulse/internal/infra/rpc/provider"
)

var (
	// HealthScore tracks the latest network health index per node
	HealthScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockpulse_health_score",
			Help: "Latest network health index (0-100)",
		},
		[]string{"node"},
	)

	// AvgBlockInterval tracks the mean inter-block interval of the latest window
	AvgBlockInterval = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockpulse_avg_block_interval_seconds",
			Help: "Mean inter-block interval of the latest window",
		},
		[]string{"node"},
	)

	// BlockJitter tracks the population standard deviation of the latest window
	BlockJitter = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockpulse_block_jitter_seconds",
			Help: "Population standard deviation of inter-block intervals",
		},
		[]string{"node"},
	)

	// ChainLatestBlock tracks the latest block height seen on the node
	ChainLatestBlock = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockpulse_chain_latest_block",
			Help: "Latest block height reported by the node",
		},
		[]string{"node"},
	)

	// CyclesTotal tracks monitor cycles by outcome
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpulse_cycles_total",
			Help: "Total number of monitor cycles",
		},
		[]string{"node", "status"},
	)

	// SkippedBlocksTotal tracks blocks left out of a window
	SkippedBlocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpulse_skipped_blocks_total",
			Help: "Total number of blocks skipped while sampling a window",
		},
		[]string{"node", "reason"},
	)

	// RPCCallsTotal tracks RPC calls per node and method
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpulse_rpc_calls_total",
			Help: "Total number of RPC calls",
		},
		[]string{"node", "method"},
	)

	// RPCErrorsTotal tracks RPC errors per node and error type
	RPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockpulse_rpc_errors_total",
			Help: "Total number of RPC errors",
		},
		[]string{"node", "method", "error_type"},
	)

	// RPCLatency tracks RPC call latency
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blockpulse_rpc_latency_seconds",
			Help:    "RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"node", "method"},
	)
)

// Recorder feeds provider, calculator and monitor events into the collectors above.
type Recorder struct {
	node string
}

// NewRecorder creates a recorder labelling every series with node.
func NewRecorder(node string) *Recorder {
	return &Recorder{node: node}
}

// ObserveCall implements provider.Observer.
func (r *Recorder) ObserveCall(_ string, method string, latency time.Duration, err error) {
	RPCCallsTotal.WithLabelValues(r.node, method).Inc()
	RPCLatency.WithLabelValues(r.node, method).Observe(latency.Seconds())
	if err != nil {
		RPCErrorsTotal.WithLabelValues(r.node, method, errorType(err)).Inc()
	}
}

// ObserveSkip implements pulse.SkipObserver.
func (r *Recorder) ObserveSkip(reason domain.SkipReason) {
	SkippedBlocksTotal.WithLabelValues(r.node, string(reason)).Inc()
}

// Report implements health.Reporter.
func (r *Recorder) Report(rep domain.Report) {
	CyclesTotal.WithLabelValues(r.node, string(rep.Status)).Inc()
	if rep.Index == nil {
		return
	}

	HealthScore.WithLabelValues(r.node).Set(rep.Index.Score)
	AvgBlockInterval.WithLabelValues(r.node).Set(rep.Index.AvgInterval)
	BlockJitter.WithLabelValues(r.node).Set(rep.Index.Jitter)
	ChainLatestBlock.WithLabelValues(r.node).Set(float64(rep.Index.LatestBlock))
}

func errorType(err error) string {
	switch {
	case provider.IsTransport(err):
		return "transport"
	case provider.IsProtocol(err):
		return "protocol"
	default:
		return "other"
	}
}

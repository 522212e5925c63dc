package metrics

import (
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncerFetchTipTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shieldsync",
		Subsystem: "syncer",
		Name:      "fetch_tip_total",
		Help:      "Count of attempts to fetch the chain tip.",
	}, []string{"network", "status"})
	syncerFetchTipDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shieldsync",
		Subsystem: "syncer",
		Name:      "fetch_tip_duration_seconds",
		Help:      "Duration of fetching the chain tip.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	syncerSessionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shieldsync",
		Subsystem: "syncer",
		Name:      "session_total",
		Help:      "Count of sync sessions.",
	}, []string{"network", "status"})
	syncerSessionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shieldsync",
		Subsystem: "syncer",
		Name:      "session_duration_seconds",
		Help:      "Duration of sync sessions.",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
	}, []string{"network", "status"})
	syncerSessionBlocks = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shieldsync",
		Subsystem: "syncer",
		Name:      "session_blocks",
		Help:      "Number of blocks covered by a sync session.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
	}, []string{"network"})

	syncerHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "shieldsync",
		Subsystem: "syncer",
		Name:      "height",
		Help:      "Last synced height and server tip.",
	}, []string{"network", "kind"})
)

// Syncer tracks the long-running sync loop.
type Syncer struct {
	network model.Network
}

func NewSyncer(network model.Network) *Syncer {
	if network == "" {
		network = "unknown"
	}
	return &Syncer{network: network}
}

// ObserveFetchTip records a chain tip query.
func (m Syncer) ObserveFetchTip(err error, started time.Time) {
	status := statusOf(err)
	syncerFetchTipTotal.WithLabelValues(string(m.network), status).Inc()
	syncerFetchTipDuration.WithLabelValues(string(m.network), status).Observe(time.Since(started).Seconds())
}

// ObserveSession records a sync session over blocks heights.
func (m Syncer) ObserveSession(err error, blocks uint64, started time.Time) {
	status := statusOf(err)
	syncerSessionTotal.WithLabelValues(string(m.network), status).Inc()
	syncerSessionDuration.WithLabelValues(string(m.network), status).Observe(time.Since(started).Seconds())
	syncerSessionBlocks.WithLabelValues(string(m.network)).Observe(float64(blocks))
}

func (m Syncer) SetHeights(synced, tip uint64) {
	syncerHeight.WithLabelValues(string(m.network), "synced").Set(float64(synced))
	syncerHeight.WithLabelValues(string(m.network), "tip").Set(float64(tip))
}

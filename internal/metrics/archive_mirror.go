package metrics

import (
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mirrorFlushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shieldsync",
		Subsystem: "archive_mirror",
		Name:      "flush_total",
		Help:      "Count of archive mirror flushes.",
	}, []string{"table", "network", "status"})
	mirrorFlushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shieldsync",
		Subsystem: "archive_mirror",
		Name:      "flush_duration_seconds",
		Help:      "Duration of archive mirror flushes.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"table", "network", "status"})
	mirrorFlushRows = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shieldsync",
		Subsystem: "archive_mirror",
		Name:      "flush_rows",
		Help:      "Rows written per archive mirror flush.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"table", "network"})
)

// ArchiveMirror tracks the batched ClickHouse writes of the block archive.
type ArchiveMirror struct {
	network model.Network
}

func NewArchiveMirror(network model.Network) *ArchiveMirror {
	if network == "" {
		network = "unknown"
	}
	return &ArchiveMirror{network: network}
}

// ObserveFlush records one batch flush into table.
func (m ArchiveMirror) ObserveFlush(table string, err error, rows int, started time.Time) {
	status := statusOf(err)
	mirrorFlushTotal.WithLabelValues(table, string(m.network), status).Inc()
	mirrorFlushDuration.WithLabelValues(table, string(m.network), status).Observe(time.Since(started).Seconds())
	mirrorFlushRows.WithLabelValues(table, string(m.network)).Observe(float64(rows))
}

package metrics

import (
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	blockFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shieldsync",
		Subsystem: "blaze_sync",
		Name:      "block_fetch_total",
		Help:      "Count of block range downloads.",
	}, []string{"network", "status"})
	blockFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shieldsync",
		Subsystem: "blaze_sync",
		Name:      "block_fetch_duration_seconds",
		Help:      "Duration of block range downloads.",
		Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"network", "status"})
	blocksDownloaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shieldsync",
		Subsystem: "blaze_sync",
		Name:      "blocks_downloaded_total",
		Help:      "Count of compact blocks received.",
	}, []string{"network"})

	trialBatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shieldsync",
		Subsystem: "blaze_sync",
		Name:      "trial_batch_total",
		Help:      "Count of trial decryption batches.",
	}, []string{"network", "status"})
	trialBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shieldsync",
		Subsystem: "blaze_sync",
		Name:      "trial_batch_duration_seconds",
		Help:      "Duration of trial decryption batches.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})
	trialBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shieldsync",
		Subsystem: "blaze_sync",
		Name:      "trial_batch_size",
		Help:      "Number of blocks per trial decryption batch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
	}, []string{"network"})

	noteUpdateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shieldsync",
		Subsystem: "blaze_sync",
		Name:      "note_update_total",
		Help:      "Count of note spend checks and witness updates.",
	}, []string{"network", "outcome", "status"})
	noteUpdateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shieldsync",
		Subsystem: "blaze_sync",
		Name:      "note_update_duration_seconds",
		Help:      "Duration of note spend checks and witness updates.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	txScanTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shieldsync",
		Subsystem: "blaze_sync",
		Name:      "tx_scan_total",
		Help:      "Count of full transaction fetches and scans.",
	}, []string{"network", "origin", "status"})
	txScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shieldsync",
		Subsystem: "blaze_sync",
		Name:      "tx_scan_duration_seconds",
		Help:      "Duration of full transaction fetches and scans.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "origin", "status"})
)

// BlazeSync tracks the stages of a sync session.
type BlazeSync struct {
	network model.Network
}

func NewBlazeSync(network model.Network) *BlazeSync {
	if network == "" {
		network = "unknown"
	}
	return &BlazeSync{network: network}
}

// ObserveBlockFetch records a block range download and how many blocks arrived.
func (m BlazeSync) ObserveBlockFetch(err error, blocks uint64, started time.Time) {
	status := statusOf(err)
	blockFetchTotal.WithLabelValues(string(m.network), status).Inc()
	blockFetchDuration.WithLabelValues(string(m.network), status).Observe(time.Since(started).Seconds())
	blocksDownloaded.WithLabelValues(string(m.network)).Add(float64(blocks))
}

// ObserveTrialBatch records trial decryption of a batch of blocks.
func (m BlazeSync) ObserveTrialBatch(err error, blocks int, started time.Time) {
	status := statusOf(err)
	trialBatchTotal.WithLabelValues(string(m.network), status).Inc()
	trialBatchDuration.WithLabelValues(string(m.network), status).Observe(time.Since(started).Seconds())
	trialBatchSize.WithLabelValues(string(m.network)).Observe(float64(blocks))
}

// ObserveNoteUpdate records the spend check and witness update of one note.
func (m BlazeSync) ObserveNoteUpdate(err error, spent bool, started time.Time) {
	status := statusOf(err)
	outcome := "unspent"
	if spent {
		outcome = "spent"
	}
	noteUpdateTotal.WithLabelValues(string(m.network), outcome, status).Inc()
	noteUpdateDuration.WithLabelValues(string(m.network), status).Observe(time.Since(started).Seconds())
}

// ObserveTxScan records a full transaction fetch and scan. origin names the stage that asked for it.
func (m BlazeSync) ObserveTxScan(err error, origin string, started time.Time) {
	status := statusOf(err)
	txScanTotal.WithLabelValues(string(m.network), origin, status).Inc()
	txScanDuration.WithLabelValues(string(m.network), origin, status).Observe(time.Since(started).Seconds())
}

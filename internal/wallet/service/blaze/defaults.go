package blaze

import "time"

const (
	trialBatchSize          = 1000
	defaultTrialWorkers     = 4
	maxInFlightTxFetches    = 16
	noteUpdaterWorkers      = 16
	blockChannelCapacity    = 10_000
	detectedChannelCapacity = 1000
	fetchChannelCapacity    = 1000
	maxSessionBlocks        = 50_000

	sleepDuration        = 30 * time.Second
	backoffBase          = 5 * time.Second
	backoffLimit         = 5 * time.Minute
	mempoolIdleDuration  = 5 * time.Second
	mempoolRetryDuration = 2 * time.Second

	originUpdater     = "updater"
	originSpender     = "spender"
	originPrefetch    = "prefetch"
	originTransparent = "transparent"
	originMempool     = "mempool"
)

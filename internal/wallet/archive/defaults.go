package archive

import "time"

const (
	blockFlushSize         = 1000
	nullifierFlushSize     = 10_000
	mirrorFlushInterval    = 5 * time.Second
	mirrorFlushesPerSecond = 20
)

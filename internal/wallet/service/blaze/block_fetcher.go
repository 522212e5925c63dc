package blaze

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"go.uber.org/zap"
)

// blockFetcher streams a height range and hands every block to both consumers in order.
type blockFetcher struct {
	source  Source
	data    *SyncData
	metrics Metrics
	logger  *zap.Logger
}

// Fetch announces the earliest height, then streams start..end into outs. Both outputs are
// closed once the whole range is delivered. On failure they stay open so consumers stop on the
// canceled context instead of mistaking a partial range for a complete one.
func (f *blockFetcher) Fetch(ctx context.Context, earliest chan<- uint64, outs [2]chan<- model.CompactBlock) (err error) {
	started := time.Now()
	var received uint64
	defer func() {
		if err == nil {
			for _, out := range outs {
				close(out)
			}
		}
		f.metrics.ObserveBlockFetch(err, received, started)
	}()

	start, end := f.data.Start, f.data.End
	select {
	case earliest <- min(start, end):
	case <-ctx.Done():
		return ctx.Err()
	}

	stream, err := f.source.BlockRange(ctx, start, end)
	if err != nil {
		return f.classify(ctx, err)
	}

	ascending := start <= end
	want := rangeSize(start, end)
	next := start
	var prev *model.CompactBlock
	for received < want {
		block, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			return model.NewDecodeError("block range", fmt.Errorf("stream ended after %d of %d blocks", received, want))
		}
		if recvErr != nil {
			return f.classify(ctx, recvErr)
		}
		if err = validateBlock(block, next, prev, ascending); err != nil {
			return err
		}
		for _, out := range outs {
			select {
			case out <- block:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		received++
		f.data.blocksDownloaded.Add(1)
		if err = f.data.canceled(); err != nil {
			return err
		}

		prev = &block
		if ascending {
			next++
		} else {
			next--
		}
	}

	f.logger.Debug("block range fetched", zap.Uint64("start", start), zap.Uint64("end", end), zap.Uint64("blocks", received))
	return nil
}

func (f *blockFetcher) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if model.IsNetworkError(err) || model.IsDecodeError(err) {
		return err
	}
	return model.NewNetworkError("get_block_range", err)
}

func validateBlock(b model.CompactBlock, want uint64, prev *model.CompactBlock, ascending bool) error {
	what := fmt.Sprintf("block %d", b.Height)
	if b.Height != want {
		return model.NewDecodeError(what, fmt.Errorf("out of sequence, want height %d", want))
	}
	if len(b.Hash) == 0 {
		return model.NewDecodeError(what, errors.New("missing hash"))
	}
	if prev == nil {
		return nil
	}
	child, parent := b, *prev
	if !ascending {
		child, parent = parent, b
	}
	if len(child.PrevHash) > 0 && !bytes.Equal(child.PrevHash, parent.Hash) {
		return model.NewDecodeError(what, errors.New("prev hash does not link"))
	}
	return nil
}

func rangeSize(start, end uint64) uint64 {
	return max(start, end) - min(start, end) + 1
}

package blaze

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/domain"
	"github.com/goodnatureofminers/shieldsync-backend/internal/wallet/model"
	"github.com/goodnatureofminers/shieldsync-backend/pkg/safe"
	"github.com/goodnatureofminers/shieldsync-backend/pkg/workerpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// trialDecryptor tries every wallet key against every compact output of the streamed blocks.
type trialDecryptor struct {
	source     Source
	domains    []Domain
	keys       KeyStore
	ledger     Ledger
	data       *SyncData
	metrics    Metrics
	limiter    *semaphore.Weighted
	workers    int
	maxOutputs int
	logger     *zap.Logger

	prefetches sync.WaitGroup
}

// hitTask is one successful trial decryption waiting for its witness and nullifier.
type hitTask struct {
	domain      Domain
	block       *model.CompactBlock
	tx          *model.CompactTx
	commitments [][32]byte
	offset      int
	hit         domain.TrialHit
}

// Run consumes blocks until the channel closes and sends a DetectedNote for every new note with a
// nullifier. detected is closed on return.
func (d *trialDecryptor) Run(ctx context.Context, blocks <-chan model.CompactBlock, detected chan<- DetectedNote) error {
	defer close(detected)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(d.workers, 1))

	batch := make([]model.CompactBlock, 0, trialBatchSize)
	spawn := func() {
		b := batch
		g.Go(func() error { return d.processBatch(gctx, ctx, b, detected) })
		batch = make([]model.CompactBlock, 0, trialBatchSize)
	}

loop:
	for {
		select {
		case <-gctx.Done():
			break loop
		case block, ok := <-blocks:
			if !ok {
				break loop
			}
			batch = append(batch, block)
			if len(batch) == trialBatchSize {
				spawn()
			}
		}
	}
	if len(batch) > 0 && gctx.Err() == nil {
		spawn()
	}

	err := g.Wait()
	d.prefetches.Wait()
	if err != nil {
		return err
	}
	return ctx.Err()
}

// processBatch runs under the batch group's context. Prefetches use parent instead: the group
// context is canceled as soon as the last batch returns, while prefetches are waited for later.
func (d *trialDecryptor) processBatch(ctx, parent context.Context, batch []model.CompactBlock, detected chan<- DetectedNote) (err error) {
	started := time.Now()
	defer func() { d.metrics.ObserveTrialBatch(err, len(batch), started) }()

	if err = d.data.canceled(); err != nil {
		return err
	}

	var tasks []hitTask
	for i := range batch {
		block := &batch[i]
		blockTasks, err := d.scanBlock(parent, block)
		if err != nil {
			return err
		}
		tasks = append(tasks, blockTasks...)
	}

	err = workerpool.Process(ctx, max(d.workers, 1), tasks, func(ctx context.Context, task hitTask) error {
		return d.processHit(ctx, task, detected)
	}, nil)
	if err != nil {
		return err
	}

	d.data.trialDecryptionsDone.Add(uint64(len(batch)))
	return nil
}

// scanBlock trial-decrypts one block and returns its hits. ctx bounds the prefetches it starts.
func (d *trialDecryptor) scanBlock(ctx context.Context, block *model.CompactBlock) ([]hitTask, error) {
	commitments := make(map[model.Protocol][][32]byte, len(d.domains))
	offsets := make(map[model.Protocol][]int, len(d.domains))
	for _, dom := range d.domains {
		c, o, err := blockCommitments(dom, block)
		if err != nil {
			return nil, err
		}
		commitments[dom.Protocol()] = c
		offsets[dom.Protocol()] = o
	}

	var tasks []hitTask
	for i := range block.Txs {
		tx := &block.Txs[i]
		if d.maxOutputs > 0 && tx.OutputCount() > d.maxOutputs {
			break
		}

		found := false
		for _, dom := range d.domains {
			vks := d.keys.ViewingKeys(dom.Protocol())
			hits, err := dom.TrialDecrypt(vks, dom.CompactOutputs(tx))
			if err != nil {
				return nil, fmt.Errorf("block %d tx %s: %w", block.Height, tx.TxID, err)
			}
			for _, hit := range hits {
				found = true
				tasks = append(tasks, hitTask{
					domain:      dom,
					block:       block,
					tx:          tx,
					commitments: commitments[dom.Protocol()],
					offset:      offsets[dom.Protocol()][i],
					hit:         hit,
				})
			}
		}

		if !found && d.data.MemoPolicy.FetchesAll() {
			d.prefetch(ctx, tx.TxID, block.Height)
		}
	}
	return tasks, nil
}

// prefetch downloads a transaction the wallet does not own so the server cannot tell which
// transactions are interesting. The result is discarded.
func (d *trialDecryptor) prefetch(ctx context.Context, txid model.TxID, height uint64) {
	if err := d.limiter.Acquire(ctx, 1); err != nil {
		return
	}
	d.prefetches.Go(func() {
		defer d.limiter.Release(1)
		started := time.Now()
		_, err := d.source.Transaction(ctx, txid)
		d.metrics.ObserveTxScan(err, originPrefetch, started)
		if err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Warn("prefetch transaction failed", zap.Stringer("txid", txid), zap.Uint64("height", height), zap.Error(err))
		}
	})
}

func (d *trialDecryptor) processHit(ctx context.Context, task hitTask, detected chan<- DetectedNote) error {
	dom := task.domain
	protocol := dom.Protocol()
	height := task.block.Height
	vks := d.keys.ViewingKeys(protocol)
	vk := vks[task.hit.KeyIndex]
	outputIndex, err := safe.Uint32(task.hit.OutputIndex)
	if err != nil {
		return model.NewDecodeError(fmt.Sprintf("output of %s", task.tx.TxID), err)
	}

	ts, err := d.data.treeBefore(ctx, height)
	if err != nil {
		return err
	}
	witness, err := dom.WitnessAt(height, dom.Frontier(ts), task.commitments, task.offset+task.hit.OutputIndex)
	if err != nil {
		return err
	}

	position := witness.Position
	note := model.Note{
		Protocol:        protocol,
		KeyIndex:        vk.Index,
		Diversifier:     task.hit.Note.Diversifier,
		Value:           task.hit.Note.Value,
		Data:            task.hit.Note.Data,
		Recipient:       task.hit.Note.Recipient,
		Position:        &position,
		OutputIndex:     &outputIndex,
		HaveSpendingKey: vk.HaveSpendingKey,
	}
	if len(vk.FullViewingKey) > 0 {
		nf, err := dom.DeriveNullifier(vk, task.hit.Note, position)
		if err != nil {
			return err
		}
		note.Nullifier = &nf
	}
	if err = note.Witnesses.Push(witness); err != nil {
		return err
	}

	if _, err = d.ledger.AddNewNote(task.tx.TxID, model.Confirmed(height), uint64(task.block.Time), note); err != nil {
		return err
	}

	found := DetectedNote{TxID: task.tx.TxID, Height: height, OutputIndex: &outputIndex}
	if note.Nullifier != nil {
		found.Nullifier = *note.Nullifier
	}
	d.data.recordDetected(found)
	d.logger.Debug("note detected",
		zap.Stringer("txid", task.tx.TxID),
		zap.String("protocol", string(protocol)),
		zap.Uint64("height", height),
		zap.Uint32("output", outputIndex))

	if note.Nullifier == nil {
		return nil
	}
	select {
	case detected <- found:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// blockCommitments lists a pool's note commitments of a block in tree order, along with the index
// of each transaction's first commitment.
func blockCommitments(dom Domain, block *model.CompactBlock) ([][32]byte, []int, error) {
	var commitments [][32]byte
	offsets := make([]int, len(block.Txs))
	for i := range block.Txs {
		offsets[i] = len(commitments)
		for j, out := range dom.CompactOutputs(&block.Txs[i]) {
			var c [32]byte
			if len(out.Commitment) != len(c) {
				return nil, nil, model.NewDecodeError(
					fmt.Sprintf("block %d tx %d %s output %d", block.Height, i, dom.Protocol(), j),
					fmt.Errorf("commitment length %d", len(out.Commitment)))
			}
			copy(c[:], out.Commitment)
			commitments = append(commitments, c)
		}
	}
	return commitments, offsets, nil
}

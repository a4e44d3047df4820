package processor

//go:generate mockgen -source=worker.go -destination=mock_worker_test.go -package=processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ignorebtc/internal/metrics"
	"ignorebtc/pkg/models"

	"go.uber.org/zap"
)

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

var ErrMissingTxTime = errors.New("transaction time unknown and no node to ask")

// Store persists imported reports.
type Store interface {
	SaveReport(ctx context.Context, txID string, algo models.Algorithm, tx models.TransactionContext, in models.ReportInput) error
}

// Enricher fills in data the statistics engine left out.
type Enricher interface {
	TransactionTime(ctx context.Context, txID string) (time.Time, error)
	CoinbaseASCII(ctx context.Context, height int64) (string, error)
}

type WorkerPool struct {
	store      Store
	enricher   Enricher
	numWorkers int
	progress   chan ProgressUpdate
	logger     *zap.Logger
}

type ProgressUpdate struct {
	TxID      string
	Algorithm models.Algorithm
	Blocks    int
	Status    string
	Error     error
}

// NewWorkerPool creates a pool importing through store. enricher may be nil.
func NewWorkerPool(store Store, enricher Enricher, numWorkers int, logger *zap.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool{
		store:      store,
		enricher:   enricher,
		numWorkers: numWorkers,
		progress:   make(chan ProgressUpdate, numWorkers*2),
		logger:     logger,
	}
}

// ImportEntries stores every entry and closes the progress channel when done.
// A failing entry is reported on the progress channel and does not stop the
// others. Of several entries for one (txid, algo) only the last is stored.
func (wp *WorkerPool) ImportEntries(ctx context.Context, entries []models.ImportEntry) error {
	defer close(wp.progress)

	entries = latestEntries(entries)

	jobs := make(chan models.ImportEntry, len(entries))
	var wg sync.WaitGroup

	for i := 0; i < wp.numWorkers; i++ {
		wg.Add(1)
		go wp.worker(ctx, jobs, &wg)
	}

	for _, entry := range entries {
		select {
		case jobs <- entry:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(jobs)

	wg.Wait()
	return ctx.Err()
}

func (wp *WorkerPool) worker(ctx context.Context, jobs <-chan models.ImportEntry, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case entry, ok := <-jobs:
			if !ok {
				return
			}

			if err := wp.importEntry(ctx, entry); err != nil {
				metrics.ObserveImport(StatusFailed)
				wp.logger.Warn("Import entry failed",
					zap.String("txid", entry.TxID),
					zap.Stringer("algo", entry.Algorithm),
					zap.Error(err))
				wp.send(ctx, ProgressUpdate{
					TxID:      entry.TxID,
					Algorithm: entry.Algorithm,
					Status:    StatusFailed,
					Error:     err,
				})
			}

		case <-ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) importEntry(ctx context.Context, entry models.ImportEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wp.send(ctx, ProgressUpdate{TxID: entry.TxID, Algorithm: entry.Algorithm, Status: StatusProcessing})

	in := entry.IgData.Input()

	tx, known := entry.Context()
	if !known {
		var err error
		if tx, err = wp.transactionContext(ctx, entry.TxID, in); err != nil {
			return err
		}
	}

	blocks := 0
	if r, ok := in.(models.Reported); ok {
		report, err := wp.fillCoinbase(ctx, r.Report)
		if err != nil {
			return err
		}
		in = models.Reported{Report: report}
		blocks = len(report.Records)
	}

	if err := wp.store.SaveReport(ctx, entry.TxID, entry.Algorithm, tx, in); err != nil {
		return fmt.Errorf("failed to save report for %s: %w", entry.TxID, err)
	}

	metrics.ObserveImport(StatusCompleted)
	wp.send(ctx, ProgressUpdate{
		TxID:      entry.TxID,
		Algorithm: entry.Algorithm,
		Blocks:    blocks,
		Status:    StatusCompleted,
	})
	return nil
}

// transactionContext asks the node for the transaction time. Only a report
// with records needs it; the other inputs never show the time.
func (wp *WorkerPool) transactionContext(ctx context.Context, txID string, in models.ReportInput) (models.TransactionContext, error) {
	if wp.enricher == nil {
		if _, ok := in.(models.Reported); ok {
			return models.TransactionContext{}, fmt.Errorf("%s: %w", txID, ErrMissingTxTime)
		}
		return models.TransactionContext{}, nil
	}

	t, err := wp.enricher.TransactionTime(ctx, txID)
	if err != nil {
		return models.TransactionContext{}, fmt.Errorf("failed to get time of transaction %s: %w", txID, err)
	}
	return models.TransactionContext{Time: t}, nil
}

func (wp *WorkerPool) fillCoinbase(ctx context.Context, r models.IgnoringReport) (models.IgnoringReport, error) {
	if wp.enricher == nil {
		return r, nil
	}

	records := make([]models.IgnoringBlockRecord, len(r.Records))
	copy(records, r.Records)
	for i, rec := range records {
		if rec.Miner.CoinbaseASCII != "" {
			continue
		}
		ascii, err := wp.enricher.CoinbaseASCII(ctx, rec.Height)
		if err != nil {
			return r, fmt.Errorf("failed to get coinbase of block %d: %w", rec.Height, err)
		}
		records[i].Miner.CoinbaseASCII = ascii
	}
	r.Records = records
	return r, nil
}

// latestEntries keeps the last entry per (txid, algo) in its original
// position, so no two workers save the same report.
func latestEntries(entries []models.ImportEntry) []models.ImportEntry {
	type key struct {
		txID string
		algo models.Algorithm
	}

	last := make(map[key]int, len(entries))
	for i, e := range entries {
		last[key{e.TxID, e.Algorithm}] = i
	}
	if len(last) == len(entries) {
		return entries
	}

	kept := make([]models.ImportEntry, 0, len(last))
	for i, e := range entries {
		if last[key{e.TxID, e.Algorithm}] == i {
			kept = append(kept, e)
		}
	}
	return kept
}

func (wp *WorkerPool) send(ctx context.Context, u ProgressUpdate) {
	select {
	case wp.progress <- u:
	case <-ctx.Done():
	}
}

func (wp *WorkerPool) GetProgressChannel() <-chan ProgressUpdate {
	return wp.progress
}

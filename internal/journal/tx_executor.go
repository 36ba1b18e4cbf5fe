package journal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/airsense/pm10cast/internal/logging"
)

type appendEntriesFn func(context.Context, []Entry) error

type txExecutorOptions struct {
	flushSize int
	flushTime time.Duration
	appendFn  appendEntriesFn
}

// txExecutor accumulates entries and inserts them in bulk into persistent
// storage.
type txExecutor struct {
	mtx  sync.Mutex
	opts txExecutorOptions
	buf  []Entry
	wg   sync.WaitGroup
	// closed is set by shutdown; later entries are dropped.
	closed bool
}

func newTxExecutor(opts txExecutorOptions) *txExecutor {
	return &txExecutor{opts: opts}
}

// append adds an entry to the buffer and starts a bulk insert once the
// buffer reaches the flush size.
func (tx *txExecutor) append(ctx context.Context, e Entry) bool {
	tx.mtx.Lock()
	defer tx.mtx.Unlock()
	if tx.closed {
		logging.FromContext(ctx).Warnf("txExecutor: entry %s dropped after shutdown", e.ID)
		return false
	}
	tx.buf = append(tx.buf, e)
	if len(tx.buf) >= tx.opts.flushSize {
		tx.wg.Add(1)
		go func() {
			defer tx.wg.Done()
			tx.bulkAppend(ctx)
		}()
	}
	return true
}

func (tx *txExecutor) take() []Entry {
	tx.mtx.Lock()
	defer tx.mtx.Unlock()
	if len(tx.buf) == 0 {
		return nil
	}
	tmp := make([]Entry, len(tx.buf))
	copy(tmp, tx.buf)
	tx.buf = tx.buf[:0]
	return tmp
}

func (tx *txExecutor) bulkAppend(ctx context.Context) {
	logger := logging.FromContext(ctx)
	batch := tx.take()
	if len(batch) == 0 {
		return
	}
	if err := tx.opts.appendFn(context.Background(), batch); err != nil {
		logger.Errorf("txExecutor: append many operation failed: %v", err)
	}
}

// shutdown waits for in-flight inserts and writes whatever is left in the
// buffer.
func (tx *txExecutor) shutdown() error {
	tx.mtx.Lock()
	tx.closed = true
	tx.mtx.Unlock()

	tx.wg.Wait()
	batch := tx.take()
	if len(batch) == 0 {
		return nil
	}
	if err := tx.opts.appendFn(context.Background(), batch); err != nil {
		return fmt.Errorf("txExecutor: append many operation failed: %w", err)
	}
	return nil
}

// flusher inserts the buffer every flushTime until ctx is done, then flushes
// the rest.
func (tx *txExecutor) flusher(ctx context.Context) error {
	ticker := time.NewTicker(tx.opts.flushTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			tx.bulkAppend(ctx)
		case <-ctx.Done():
			return tx.shutdown()
		}
	}
}

// Package journal keeps a bounded on-disk record of served predictions.
package journal

import (
	"context"
	"time"

	"github.com/airsense/pm10cast/internal/database"
	"github.com/airsense/pm10cast/internal/logging"
)

type Journal struct {
	store *store
	tx    *txExecutor
	sched *scheduler
	now   func() time.Time
}

func New(db *database.DB, cfg *Config) *Journal {
	s := newStore(db)
	flushSize := cfg.FlushSize
	if flushSize <= 0 {
		flushSize = 1
	}
	flushTime := cfg.FlushTime
	if flushTime <= 0 {
		flushTime = time.Second
	}
	rebuildTime := cfg.RebuildTime
	if rebuildTime <= 0 {
		rebuildTime = time.Minute
	}
	return &Journal{
		store: s,
		tx: newTxExecutor(txExecutorOptions{
			flushSize: flushSize,
			flushTime: flushTime,
			appendFn:  s.AppendMany,
		}),
		sched: newScheduler(
			schedulerConfig{maxItems: cfg.MaxItems, maxAge: cfg.MaxAge, rebuildTime: rebuildTime},
			schedulerDeps{
				count:      s.Count,
				keysBefore: s.KeysBefore,
				oldestKeys: s.OldestKeys,
				deleteKeys: s.DeleteMany,
			},
		),
		now: time.Now,
	}
}

// Record buffers a served prediction. It never blocks on disk.
func (j *Journal) Record(ctx context.Context, key string, prediction float64) {
	j.tx.append(ctx, NewEntry(key, prediction, j.now()))
}

// Run flushes the buffer and applies retention until ctx is done. The
// remaining buffer is written before Run returns.
func (j *Journal) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	logger.Info("prediction journal started")

	done := make(chan struct{})
	go func() {
		defer close(done)
		j.sched.schedule(ctx)
	}()

	err := j.tx.flusher(ctx)
	<-done
	if err != nil {
		return err
	}
	logger.Info("prediction journal flushed")
	return nil
}

// Entries returns every stored entry, oldest first.
func (j *Journal) Entries(ctx context.Context) ([]Entry, error) {
	return j.store.FindAll(ctx)
}

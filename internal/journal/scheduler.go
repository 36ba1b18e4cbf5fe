package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/airsense/pm10cast/internal/logging"
)

type schedulerConfig struct {
	maxItems    int
	maxAge      time.Duration
	rebuildTime time.Duration
}

type deleteKeysFn func(context.Context, [][]byte) error

type keysBeforeFn func(time.Time) ([][]byte, error)

type oldestKeysFn func(int) ([][]byte, error)

type countFn func() (int, error)

type schedulerDeps struct {
	count      countFn
	keysBefore keysBeforeFn
	oldestKeys oldestKeysFn
	deleteKeys deleteKeysFn
	now        func() time.Time
}

// scheduler removes journal entries that are too old or beyond the
// configured capacity.
type scheduler struct {
	opts schedulerConfig
	deps schedulerDeps
}

func newScheduler(opts schedulerConfig, deps schedulerDeps) *scheduler {
	if deps.now == nil {
		deps.now = time.Now
	}
	return &scheduler{opts: opts, deps: deps}
}

func (s *scheduler) rebuildOutdated() error {
	keys, err := s.deps.keysBefore(s.deps.now().Add(-s.opts.maxAge))
	if err != nil {
		return fmt.Errorf("unable find outdated entries: %w", err)
	}
	if err := s.deps.deleteKeys(context.Background(), keys); err != nil {
		return fmt.Errorf("unable delete outdated entries: %w", err)
	}
	return nil
}

func (s *scheduler) rebuildSize() error {
	length, err := s.deps.count()
	if err != nil {
		return fmt.Errorf("unable count entries: %w", err)
	}
	if length <= s.opts.maxItems {
		return nil
	}
	keys, err := s.deps.oldestKeys(length - s.opts.maxItems)
	if err != nil {
		return fmt.Errorf("unable find oldest entries: %w", err)
	}
	if err := s.deps.deleteKeys(context.Background(), keys); err != nil {
		return fmt.Errorf("unable delete oversize entries: %w", err)
	}
	return nil
}

func (s *scheduler) rebuild(ctx context.Context) {
	logger := logging.FromContext(ctx)
	if s.opts.maxAge > 0 {
		if err := s.rebuildOutdated(); err != nil {
			logger.Errorf("unable db rebuild outdated: %v", err)
		}
	}
	if s.opts.maxItems > 0 {
		if err := s.rebuildSize(); err != nil {
			logger.Errorf("unable db rebuild size: %v", err)
		}
	}
}

func (s *scheduler) schedule(ctx context.Context) {
	ticker := time.NewTicker(s.opts.rebuildTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.rebuild(ctx)
		case <-ctx.Done():
			return
		}
	}
}

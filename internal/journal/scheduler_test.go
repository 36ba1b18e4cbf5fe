package journal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSchedulerRebuildSize(t *testing.T) {
	tests := []struct {
		name            string
		maxItems        int
		count           int
		countErr        error
		expectedRequest int
		expectedDeleted int
		expectedErr     bool
	}{
		{
			name:            "positive_over_size",
			maxItems:        3,
			count:           5,
			expectedRequest: 2,
			expectedDeleted: 2,
		},
		{
			name:     "positive_within_size",
			maxItems: 3,
			count:    3,
		},
		{
			name:        "negative_count",
			maxItems:    3,
			countErr:    errors.New("test error"),
			expectedErr: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			requested, deleted := 0, 0
			s := newScheduler(schedulerConfig{maxItems: test.maxItems}, schedulerDeps{
				count: func() (int, error) {
					return test.count, test.countErr
				},
				oldestKeys: func(n int) ([][]byte, error) {
					requested = n
					return make([][]byte, n), nil
				},
				deleteKeys: func(ctx context.Context, keys [][]byte) error {
					deleted = len(keys)
					return nil
				},
			})

			err := s.rebuildSize()
			if (err != nil) != test.expectedErr {
				t.Errorf("calling the rebuildSize method, err got: %v, expected error: %v", err, test.expectedErr)
			}
			if requested != test.expectedRequest {
				t.Errorf("calling the rebuildSize method, requested keys got: %v, expected: %v", requested, test.expectedRequest)
			}
			if deleted != test.expectedDeleted {
				t.Errorf("calling the rebuildSize method, deleted keys got: %v, expected: %v", deleted, test.expectedDeleted)
			}
		})
	}
}

func TestSchedulerRebuildOutdated(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var cutoff time.Time
	deleted := 0
	s := newScheduler(schedulerConfig{maxAge: time.Hour}, schedulerDeps{
		keysBefore: func(t time.Time) ([][]byte, error) {
			cutoff = t
			return make([][]byte, 4), nil
		},
		deleteKeys: func(ctx context.Context, keys [][]byte) error {
			deleted = len(keys)
			return nil
		},
		now: func() time.Time { return now },
	})

	if err := s.rebuildOutdated(); err != nil {
		t.Fatalf("calling the rebuildOutdated method, err got: %v", err)
	}
	if !cutoff.Equal(now.Add(-time.Hour)) {
		t.Errorf("calling the rebuildOutdated method, cutoff got: %v, expected: %v", cutoff, now.Add(-time.Hour))
	}
	if deleted != 4 {
		t.Errorf("calling the rebuildOutdated method, deleted keys got: %v, expected: %v", deleted, 4)
	}
}

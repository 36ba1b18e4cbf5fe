package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/airsense/pm10cast/internal/database"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewFromEnv(context.Background(), &database.Config{
		FileName: filepath.Join(t.TempDir(), "journal.db"),
		Timeout:  time.Second,
	}, Buckets()...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close(context.Background())
	})
	return db
}

func TestStoreRetention(t *testing.T) {
	s := newStore(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	var entries []Entry
	for i := 0; i < 5; i++ {
		entries = append(entries, NewEntry("k", float64(i), base.Add(time.Duration(i)*time.Hour)))
	}
	// Insert out of order, keys sort by creation time.
	require.NoError(t, s.AppendMany(ctx, []Entry{entries[3], entries[0], entries[4]}))
	require.NoError(t, s.AppendMany(ctx, []Entry{entries[1], entries[2]}))

	count, err := s.Count()
	require.NoError(t, err)
	require.Equal(t, 5, count)

	before, err := s.KeysBefore(base.Add(2 * time.Hour))
	require.NoError(t, err)
	require.Len(t, before, 2)

	oldest, err := s.OldestKeys(3)
	require.NoError(t, err)
	require.Len(t, oldest, 3)
	require.Equal(t, entries[0].storageKey(), oldest[0])

	require.NoError(t, s.DeleteMany(ctx, before))
	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, e := range all {
		require.Equal(t, entries[i+2].ID, e.ID)
		require.Equal(t, entries[i+2].Prediction, e.Prediction)
	}
}

func TestStoreEmpty(t *testing.T) {
	s := newStore(openTestDB(t))

	count, err := s.Count()
	require.NoError(t, err)
	require.Zero(t, count)

	keys, err := s.OldestKeys(10)
	require.NoError(t, err)
	require.Empty(t, keys)

	require.NoError(t, s.DeleteMany(context.Background(), [][]byte{[]byte("missing")}))
}

func TestJournalRunFlushesOnShutdown(t *testing.T) {
	j := New(openTestDB(t), &Config{
		FlushSize:   100,
		FlushTime:   time.Hour,
		RebuildTime: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- j.Run(ctx)
	}()

	j.Record(ctx, "first", 1.5)
	j.Record(ctx, "second", 2.5)
	cancel()
	require.NoError(t, <-errCh)

	entries, err := j.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	keys := map[string]float64{}
	for _, e := range entries {
		keys[e.Key] = e.Prediction
	}
	require.Equal(t, map[string]float64{"first": 1.5, "second": 2.5}, keys)
}

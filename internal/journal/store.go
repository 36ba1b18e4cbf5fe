package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/airsense/pm10cast/internal/database"
	bolt "go.etcd.io/bbolt"
)

var entriesBucket = []byte("journal:entries")

// Buckets lists the buckets the journal expects in its database.
func Buckets() [][]byte {
	return [][]byte{entriesBucket}
}

func newStore(db *database.DB) *store {
	return &store{sDB: db}
}

type store struct {
	sDB *database.DB
}

func (s *store) AppendMany(_ context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := s.sDB.DB.Batch(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(entriesBucket)
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		for _, e := range entries {
			bytes, err := json.Marshal(e)
			if err != nil {
				return err
			}
			if err := b.Put(e.storageKey(), bytes); err != nil {
				return fmt.Errorf("put to bucket error: %w", err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}
	return nil
}

func (s *store) DeleteMany(_ context.Context, keys [][]byte) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.sDB.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		if b == nil {
			return nil
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return fmt.Errorf("unable delete: %w", err)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}
	return nil
}

func (s *store) Count() (int, error) {
	var length int
	if err := s.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		if b == nil {
			return nil
		}
		length = b.Stats().KeyN
		return nil
	}); err != nil {
		return 0, fmt.Errorf("view transaction error: %w", err)
	}
	return length, nil
}

// KeysBefore returns keys of entries created before t, oldest first.
func (s *store) KeysBefore(t time.Time) ([][]byte, error) {
	var keys [][]byte
	if err := s.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil && keyTime(k).Before(t); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}
	return keys, nil
}

// OldestKeys returns at most n keys, oldest first.
func (s *store) OldestKeys(n int) ([][]byte, error) {
	var keys [][]byte
	if err := s.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil && len(keys) < n; k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}
	return keys, nil
}

// FindAll returns every stored entry, oldest first.
func (s *store) FindAll(_ context.Context) ([]Entry, error) {
	var entries []Entry
	if err := s.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(entriesBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("json unmarshal error, %q", err)
			}
			entries = append(entries, e)
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %w", err)
	}
	return entries, nil
}

package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/airsense/pm10cast/internal/logging"
	bolt "go.etcd.io/bbolt"
)

type DB struct {
	DB *bolt.DB
}

// NewFromEnv opens the bolt file named in config, creating its directory
// and the given buckets when missing.
func NewFromEnv(ctx context.Context, config *Config, buckets ...[]byte) (*DB, error) {
	logger := logging.FromContext(ctx)
	logger.Infof("opening db %s", config.FileName)

	if dir := filepath.Dir(config.FileName); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := bolt.Open(config.FileName, 0600, &bolt.Options{Timeout: config.Timeout})
	if err != nil {
		return nil, fmt.Errorf("opening db %s: %w", config.FileName, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, b := range buckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", b, err)
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{DB: db}, nil
}

func (db *DB) Close(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	logger.Infof("closing db %s", db.DB.Path())

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("closing db: %w", err)
	}

	return nil
}

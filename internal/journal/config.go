package journal

import (
	"time"
)

type Config struct {
	// Buffer size at which entries are flushed to disk
	FlushSize int `envconfig:"PM10_JOURNAL_FLUSH_SIZE" default:"64"`
	// Maximum time an entry stays in the buffer
	FlushTime time.Duration `envconfig:"PM10_JOURNAL_FLUSH_TIME" default:"5s"`
	// Maximum number of stored entries, 0 keeps everything
	MaxItems int `envconfig:"PM10_JOURNAL_MAX_ITEMS" default:"100000"`
	// Maximum age of stored entries, 0 keeps everything
	MaxAge time.Duration `envconfig:"PM10_JOURNAL_MAX_AGE" default:"168h"`
	// Interval of the retention pass
	RebuildTime time.Duration `envconfig:"PM10_JOURNAL_REBUILD_TIME" default:"1m"`
}

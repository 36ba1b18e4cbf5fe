package database

import "time"

type Config struct {
	// FileName enables the prediction journal when set.
	FileName string        `envconfig:"PM10_JOURNAL_PATH"`
	Timeout  time.Duration `envconfig:"PM10_JOURNAL_OPEN_TIMEOUT" default:"1s"`
}

func (c Config) Enabled() bool {
	return c.FileName != ""
}

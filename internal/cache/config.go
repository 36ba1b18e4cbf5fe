package cache

import "time"

type Config struct {
	// Addr enables the cache when set.
	Addr     string        `envconfig:"PM10_CACHE_REDIS_ADDR"`
	Password string        `envconfig:"PM10_CACHE_REDIS_PASSWORD"`
	DB       int           `envconfig:"PM10_CACHE_REDIS_DB" default:"0"`
	TTL      time.Duration `envconfig:"PM10_CACHE_TTL" default:"10m"`
	Prefix   string        `envconfig:"PM10_CACHE_PREFIX" default:"pm10:prediction:"`
}

func (c Config) Enabled() bool {
	return c.Addr != ""
}

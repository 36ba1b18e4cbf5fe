package config

import (
	"github.com/airsense/pm10cast/internal/artifact"
	"github.com/airsense/pm10cast/internal/cache"
	"github.com/airsense/pm10cast/internal/database"
	"github.com/airsense/pm10cast/internal/journal"
	"github.com/airsense/pm10cast/internal/predict"
	"github.com/airsense/pm10cast/internal/setup"
)

var (
	_ setup.ArtifactConfigProvider = (*Config)(nil)
	_ setup.CacheConfigProvider    = (*Config)(nil)
	_ setup.DatabaseConfigProvider = (*Config)(nil)
	_ setup.JournalConfigProvider  = (*Config)(nil)
)

type Config struct {
	SrvAddr string `envconfig:"PM10_ADDR" default:"0.0.0.0:5005"`
	// GRPCAddr enables the grpc health service when set.
	GRPCAddr  string `envconfig:"PM10_GRPC_ADDR"`
	Artifacts artifact.Location
	Predict   predict.Config
	Cache     cache.Config
	Database  database.Config
	Journal   journal.Config
}

func (c *Config) ArtifactLocation() artifact.Location {
	return c.Artifacts
}

func (c *Config) CacheConfig() *cache.Config {
	return &c.Cache
}

func (c *Config) DatabaseConfig() *database.Config {
	return &c.Database
}

func (c *Config) JournalConfig() *journal.Config {
	return &c.Journal
}

package setup

import (
	"context"
	"fmt"

	"github.com/airsense/pm10cast/internal/artifact"
	"github.com/airsense/pm10cast/internal/cache"
	"github.com/airsense/pm10cast/internal/database"
	"github.com/airsense/pm10cast/internal/inference"
	"github.com/airsense/pm10cast/internal/journal"
	"github.com/airsense/pm10cast/internal/logging"
	"github.com/airsense/pm10cast/internal/srvenv"
	"github.com/kelseyhightower/envconfig"
)

type ArtifactConfigProvider interface {
	ArtifactLocation() artifact.Location
}

type CacheConfigProvider interface {
	CacheConfig() *cache.Config
}

type DatabaseConfigProvider interface {
	DatabaseConfig() *database.Config
}

type JournalConfigProvider interface {
	JournalConfig() *journal.Config
}

// Setup processes the environment into config and builds the server env:
// artifacts first, then the optional cache and journal.
func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}
	return setup(ctx, config)
}

func setup(ctx context.Context, config interface{}) (env *srvenv.SrvEnv, err error) {
	logger := logging.FromContext(ctx)
	var (
		serverEnvOpts []srvenv.Option
		inferenceOpts []inference.Option
	)

	artifactProvider, ok := config.(ArtifactConfigProvider)
	if !ok {
		return nil, fmt.Errorf("config does not provide an artifact location")
	}
	dir, err := artifactProvider.ArtifactLocation().Path()
	if err != nil {
		return nil, err
	}
	logger.Infof("Loading artifacts from %s", dir)
	bundle, err := artifact.Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	serverEnvOpts = append(serverEnvOpts, srvenv.WithBundle(bundle))

	// Resources opened below are released if a later step fails.
	var opened *srvenv.SrvEnv
	defer func() {
		if err != nil && opened != nil {
			if cErr := opened.Close(ctx); cErr != nil {
				logger.Errorf("releasing partially built env: %v", cErr)
			}
		}
	}()

	if cacheProvider, ok := config.(CacheConfigProvider); ok && cacheProvider.CacheConfig().Enabled() {
		logger.Info("Configuring prediction cache")
		c, err := cache.New(ctx, cacheProvider.CacheConfig(), bundle.Digest)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to cache: %w", err)
		}
		opened = srvenv.New(srvenv.WithCache(c))
		serverEnvOpts = append(serverEnvOpts, srvenv.WithCache(c))
		inferenceOpts = append(inferenceOpts, inference.WithCache(c))
	}

	if dbProvider, ok := config.(DatabaseConfigProvider); ok && dbProvider.DatabaseConfig().Enabled() {
		logger.Info("Configuring prediction journal")
		db, err := database.NewFromEnv(ctx, dbProvider.DatabaseConfig(), journal.Buckets()...)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		if opened == nil {
			opened = srvenv.New()
		}
		srvenv.WithDatabase(db)(opened)
		serverEnvOpts = append(serverEnvOpts, srvenv.WithDatabase(db))

		journalCfg := &journal.Config{}
		if journalProvider, ok := config.(JournalConfigProvider); ok {
			journalCfg = journalProvider.JournalConfig()
		}
		j := journal.New(db, journalCfg)
		serverEnvOpts = append(serverEnvOpts, srvenv.WithJournal(j))
		inferenceOpts = append(inferenceOpts, inference.WithRecorder(j))
	}

	svc, err := inference.NewFromBundle(bundle, inferenceOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create inference service: %w", err)
	}
	serverEnvOpts = append(serverEnvOpts, srvenv.WithService(svc))

	return srvenv.New(serverEnvOpts...), nil
}

package srvenv

import (
	"context"
	"fmt"

	"github.com/airsense/pm10cast/internal/artifact"
	"github.com/airsense/pm10cast/internal/cache"
	"github.com/airsense/pm10cast/internal/database"
	"github.com/airsense/pm10cast/internal/inference"
	"github.com/airsense/pm10cast/internal/journal"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

// SrvEnv holds everything the service builds at startup.
type SrvEnv struct {
	bundle   *artifact.Bundle
	service  *inference.Service
	database *database.DB
	journal  *journal.Journal
	cache    *cache.Redis
}

func (s *SrvEnv) Bundle() *artifact.Bundle {
	return s.bundle
}

func (s *SrvEnv) Service() *inference.Service {
	return s.service
}

func (s *SrvEnv) Database() *database.DB {
	return s.database
}

// Journal is nil when the prediction journal is disabled.
func (s *SrvEnv) Journal() *journal.Journal {
	return s.journal
}

// Cache is nil when the prediction cache is disabled.
func (s *SrvEnv) Cache() *cache.Redis {
	return s.cache
}

func WithBundle(b *artifact.Bundle) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.bundle = b
		return s
	}
}

func WithService(svc *inference.Service) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.service = svc
		return s
	}
}

func WithDatabase(db *database.DB) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.database = db
		return s
	}
}

func WithJournal(j *journal.Journal) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.journal = j
		return s
	}
}

func WithCache(c *cache.Redis) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.cache = c
		return s
	}
}

// Close releases the cache connection and the journal database. The journal
// must have stopped running before Close is called.
func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.cache != nil {
		if err := s.cache.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if s.database != nil {
		if err := s.database.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("closing server env: %v", errs)
	}
	return nil
}

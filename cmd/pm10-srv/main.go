package main

import (
	"context"
	"fmt"
	"os"

	"github.com/airsense/pm10cast/internal/buildinfo"
	pm10 "github.com/airsense/pm10cast/internal/config"
	"github.com/airsense/pm10cast/internal/logging"
	"github.com/airsense/pm10cast/internal/server"
	"github.com/airsense/pm10cast/internal/setup"
	"github.com/airsense/pm10cast/internal/shutdown"
	"golang.org/x/sync/errgroup"
)

func main() {
	_, _ = fmt.Fprint(os.Stdout, buildinfo.Graffiti)
	_, _ = fmt.Fprintf(
		os.Stdout,
		"%s: %s, %s\n",
		buildinfo.Info.Name(),
		buildinfo.Info.Time(),
		buildinfo.Info.Tag(),
	)

	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	if err := run(ctx); err != nil {
		done()
		logger.Fatal(err)
	}

	defer done()
}

func run(ctx context.Context) error {
	logger := logging.FromContext(ctx)

	config := pm10.Config{}
	env, err := setup.Setup(ctx, &config)
	if err != nil {
		return fmt.Errorf("setup.Setup: %w", err)
	}
	defer func() {
		if err := env.Close(context.Background()); err != nil {
			logger.Errorf("env.Close: %v", err)
		}
	}()

	handler, err := server.Routes(&config.Predict, env.Service())
	if err != nil {
		return fmt.Errorf("server.Routes: %w", err)
	}

	srv, err := server.New(config.SrvAddr)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("serving on %s, window %d", srv.Addr(), env.Service().Window())
		return srv.ServeHTTPHandler(gctx, handler)
	})

	if config.GRPCAddr != "" {
		grpcSrv, err := server.New(config.GRPCAddr)
		if err != nil {
			return fmt.Errorf("server.New grpc: %w", err)
		}
		g.Go(func() error {
			logger.Infof("grpc health on %s", grpcSrv.Addr())
			return grpcSrv.ServeGRPC(gctx, server.NewGRPCHealth(gctx))
		})
	}

	// The journal stops only after the servers have drained.
	journalCtx, stopJournal := context.WithCancel(logging.WithLogger(context.Background(), logger))
	defer stopJournal()
	journalErr := make(chan error, 1)
	if j := env.Journal(); j != nil {
		go func() {
			journalErr <- j.Run(journalCtx)
		}()
	} else {
		journalErr <- nil
	}

	err = g.Wait()
	stopJournal()
	if jErr := <-journalErr; jErr != nil && err == nil {
		err = fmt.Errorf("journal.Run: %w", jErr)
	}
	return err
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/airsense/pm10cast/internal/logging"
	"github.com/airsense/pm10cast/internal/reqbuilder"
	"github.com/airsense/pm10cast/internal/shutdown"
	"github.com/sethvargo/go-envconfig"
)

func main() {
	ctx, done := shutdown.New()
	logger := logging.FromContext(ctx)
	if err := run(ctx); err != nil {
		done()
		logger.Fatal(err)
	}

	defer done()
}

func run(ctx context.Context) error {
	var cfg reqbuilder.Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	paths, err := reqbuilder.Run(ctx, &cfg)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Created %s\n", strings.Join(paths, ", "))
	return nil
}

// Package reqbuilder prepares sample /predict bodies from a sensor CSV.
package reqbuilder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/airsense/pm10cast/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Build reads the CSV, prepares the features and cuts one request per
// configured offset.
func Build(cfg *Config) ([]Request, error) {
	file, err := os.Open(cfg.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	f, err := readFrame(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.CSVPath, err)
	}
	f.prepare()

	columns := cfg.InputColumns()
	if missing := f.missing(columns); len(missing) > 0 {
		return nil, fmt.Errorf("missing columns in prepared data: %s", strings.Join(missing, ", "))
	}

	reqs := make([]Request, len(cfg.Offsets))
	for i, off := range cfg.Offsets {
		if reqs[i], err = f.window(off, cfg.Window, columns); err != nil {
			return nil, err
		}
	}
	return reqs, nil
}

// FileName is the name of the i-th request file, counting from zero.
func FileName(i int) string {
	return fmt.Sprintf("request_%d.json", i+1)
}

// Encode renders a request with two space indentation.
func Encode(req Request) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(req); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write stores the requests in dir concurrently and returns the paths in
// request order.
func Write(ctx context.Context, dir string, reqs []Request) ([]string, error) {
	paths := make([]string, len(reqs))
	g, _ := errgroup.WithContext(ctx)
	for i := range reqs {
		i := i
		paths[i] = filepath.Join(dir, FileName(i))
		g.Go(func() error {
			b, err := Encode(reqs[i])
			if err != nil {
				return fmt.Errorf("encode %s: %w", paths[i], err)
			}
			if err := os.WriteFile(paths[i], b, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", paths[i], err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Run builds the requests and writes them to cfg.OutDir.
func Run(ctx context.Context, cfg *Config) ([]string, error) {
	logger := logging.FromContext(ctx)
	if cfg.Window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %d", cfg.Window)
	}
	reqs, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debugf("built %d requests of %d rows from %s", len(reqs), cfg.Window, cfg.CSVPath)
	return Write(ctx, cfg.OutDir, reqs)
}

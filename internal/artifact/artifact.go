// Package artifact loads the configuration, preprocessor and model the
// service is started with. All three are produced by the training pipeline
// and are immutable for the lifetime of the process.
package artifact

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/airsense/pm10cast/internal/logging"
	"github.com/airsense/pm10cast/internal/predictor/gru"
	"github.com/airsense/pm10cast/internal/preprocess"
)

const (
	DirName          = "artifacts"
	ModelFile        = "pm10_gru_model.xdr"
	PreprocessorFile = "preprocessor.json"
	ConfigFile       = "config.toml"
)

type Location struct {
	// Dir defaults to the artifacts directory next to the executable.
	Dir string `envconfig:"PM10_ARTIFACTS_DIR"`
}

// Path resolves the artifact directory.
func (l Location) Path() (string, error) {
	if l.Dir != "" {
		return l.Dir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), DirName), nil
}

// Bundle is the loaded set of artifacts.
type Bundle struct {
	Config       Config
	Preprocessor *preprocess.ColumnTransformer
	Model        *gru.Model
	// Digest identifies the artifact files a bundle was loaded from. It is
	// empty for bundles built in memory.
	Digest string
}

// Load checks that all three artifacts exist before decoding any of them.
func Load(ctx context.Context, dir string) (*Bundle, error) {
	logger := logging.FromContext(ctx)
	var (
		modelPath        = filepath.Join(dir, ModelFile)
		preprocessorPath = filepath.Join(dir, PreprocessorFile)
		configPath       = filepath.Join(dir, ConfigFile)
	)
	for _, f := range []struct{ kind, path string }{
		{"model", modelPath},
		{"preprocessor", preprocessorPath},
		{"config", configPath},
	} {
		if err := requireFile(f.kind, f.path); err != nil {
			return nil, err
		}
	}

	logger.Infof("loading artifacts from %s", dir)
	model, err := LoadModel(modelPath)
	if err != nil {
		return nil, err
	}
	pre, err := LoadPreprocessor(preprocessorPath)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	digest, err := digestFiles(modelPath, preprocessorPath, configPath)
	if err != nil {
		return nil, err
	}

	b := &Bundle{Config: cfg, Preprocessor: pre, Model: model, Digest: digest}
	if err := b.check(); err != nil {
		return nil, err
	}
	logger.Infow("artifacts loaded",
		"window", cfg.Window,
		"numeric_features", len(cfg.NumericFeatures),
		"categorical_features", len(cfg.CategoricalFeatures),
		"feature_dim", pre.OutputDim(),
		"digest", digest,
	)
	return b, nil
}

// Write stores the bundle in dir using the artifact file names.
func Write(dir string, b *Bundle) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := WriteModel(filepath.Join(dir, ModelFile), b.Model); err != nil {
		return err
	}
	if err := WritePreprocessor(filepath.Join(dir, PreprocessorFile), b.Preprocessor); err != nil {
		return err
	}
	return WriteConfig(filepath.Join(dir, ConfigFile), b.Config)
}

func (b *Bundle) check() error {
	if !equal(b.Preprocessor.Numeric.Columns, b.Config.NumericFeatures) {
		return fmt.Errorf("preprocessor numeric columns %v do not match config %v",
			b.Preprocessor.Numeric.Columns, b.Config.NumericFeatures)
	}
	if !equal(b.Preprocessor.Categorical.Columns, b.Config.CategoricalFeatures) {
		return fmt.Errorf("preprocessor categorical columns %v do not match config %v",
			b.Preprocessor.Categorical.Columns, b.Config.CategoricalFeatures)
	}
	if b.Preprocessor.OutputDim() != b.Model.InputDim() {
		return fmt.Errorf("preprocessor produces %d features, model expects %d",
			b.Preprocessor.OutputDim(), b.Model.InputDim())
	}
	return nil
}

func requireFile(kind, path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s not found: %s", kind, path)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s not found: %s is a directory", kind, path)
	}
	return nil
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type fileWriter struct {
	*bufio.Writer
}

func writeFile(path string, fn func(w *fileWriter) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := &fileWriter{Writer: bufio.NewWriter(f)}
	if err := fn(w); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// digestFiles hashes the files in order, each prefixed with its length.
func digestFiles(paths ...string) (string, error) {
	h := sha256.New()
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open %s: %w", path, err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		_, _ = fmt.Fprintf(h, "%d\n", info.Size())
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

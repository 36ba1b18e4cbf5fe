package artifact

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config fixes the request contract the model was trained with.
type Config struct {
	Window              int      `toml:"window"`
	NumericFeatures     []string `toml:"numeric_features"`
	CategoricalFeatures []string `toml:"categorical_features"`
}

// InputColumns returns numeric features followed by categorical features.
func (c Config) InputColumns() []string {
	cols := make([]string, 0, len(c.NumericFeatures)+len(c.CategoricalFeatures))
	cols = append(cols, c.NumericFeatures...)
	return append(cols, c.CategoricalFeatures...)
}

func (c Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %d", c.Window)
	}
	cols := c.InputColumns()
	if len(cols) == 0 {
		return fmt.Errorf("no features configured")
	}
	seen := make(map[string]struct{}, len(cols))
	for _, col := range cols {
		if col == "" {
			return fmt.Errorf("empty feature name")
		}
		if _, ok := seen[col]; ok {
			return fmt.Errorf("feature %q is listed twice", col)
		}
		seen[col] = struct{}{}
	}
	return nil
}

func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("decode %s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func WriteConfig(path string, cfg Config) error {
	return writeFile(path, func(w *fileWriter) error {
		return toml.NewEncoder(w).Encode(cfg)
	})
}

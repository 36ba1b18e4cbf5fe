package artifact

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/airsense/pm10cast/internal/preprocess"
)

func LoadPreprocessor(path string) (*preprocess.ColumnTransformer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var ct preprocess.ColumnTransformer
	d := json.NewDecoder(f)
	d.DisallowUnknownFields()
	if err := d.Decode(&ct); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := ct.Init(); err != nil {
		return nil, fmt.Errorf("invalid preprocessor %s: %w", path, err)
	}
	return &ct, nil
}

func WritePreprocessor(path string, ct *preprocess.ColumnTransformer) error {
	return writeFile(path, func(w *fileWriter) error {
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(ct)
	})
}

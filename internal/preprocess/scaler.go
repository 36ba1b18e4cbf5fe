package preprocess

import (
	"fmt"
	"math"
)

// StandardScaler centres and scales numeric columns: (x - mean) / scale.
type StandardScaler struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

func (s *StandardScaler) validate() error {
	if len(s.Mean) != len(s.Columns) {
		return fmt.Errorf("scaler: %d means for %d columns", len(s.Mean), len(s.Columns))
	}
	if len(s.Scale) != len(s.Columns) {
		return fmt.Errorf("scaler: %d scales for %d columns", len(s.Scale), len(s.Columns))
	}
	for i := range s.Columns {
		if math.IsNaN(s.Mean[i]) || math.IsInf(s.Mean[i], 0) {
			return fmt.Errorf("scaler: mean of %q is not finite", s.Columns[i])
		}
		if math.IsNaN(s.Scale[i]) || math.IsInf(s.Scale[i], 0) || s.Scale[i] < 0 {
			return fmt.Errorf("scaler: scale of %q must be finite and non-negative", s.Columns[i])
		}
	}
	return nil
}

func (s *StandardScaler) apply(col int, x float64) float64 {
	scale := s.Scale[col]
	// constant features were fitted with zero variance
	if scale == 0 {
		scale = 1
	}
	return (x - s.Mean[col]) / scale
}

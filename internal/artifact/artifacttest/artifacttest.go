// Package artifacttest builds a small, deterministic artifact bundle for
// tests that need a working model.
package artifacttest

import (
	"testing"

	"github.com/airsense/pm10cast/internal/artifact"
	"github.com/airsense/pm10cast/internal/predictor/gru"
	"github.com/airsense/pm10cast/internal/preprocess"
	"gonum.org/v1/gonum/mat"
)

const Window = 3

var (
	NumericFeatures     = []string{"PM2.5", "temperature"}
	CategoricalFeatures = []string{"clouds"}
)

// Bundle returns a fitted-looking bundle: window 3, two numeric features,
// one categorical feature with three categories, a two unit GRU and a
// linear head.
func Bundle(t testing.TB) *artifact.Bundle {
	t.Helper()
	pre := &preprocess.ColumnTransformer{
		Numeric: preprocess.StandardScaler{
			Columns: NumericFeatures,
			Mean:    []float64{20, 10},
			Scale:   []float64{10, 5},
		},
		Categorical: preprocess.OneHotEncoder{
			Columns:       CategoricalFeatures,
			Categories:    [][]string{{"clear", "cloudy", "unknown"}},
			HandleUnknown: preprocess.HandleUnknownIgnore,
		},
		SparseThreshold: preprocess.DefaultSparseThreshold,
	}
	if err := pre.Init(); err != nil {
		t.Fatalf("artifacttest: preprocessor: %v", err)
	}

	dim := pre.OutputDim()
	kernel := make([]float64, dim*6)
	for i := range kernel {
		kernel[i] = float64(i%7-3) / 10
	}
	recurrent := make([]float64, 2*6)
	for i := range recurrent {
		recurrent[i] = float64(i%5-2) / 10
	}
	model, err := gru.New(dim,
		[]gru.Recurrent{{
			Kernel:          mat.NewDense(dim, 6, kernel),
			RecurrentKernel: mat.NewDense(2, 6, recurrent),
			Bias:            mat.NewVecDense(6, []float64{0.1, 0, -0.1, 0.2, 0, 0.05}),
			RecurrentBias:   mat.NewVecDense(6, nil),
		}},
		[]gru.Dense{{
			Kernel:     mat.NewDense(2, 1, []float64{0.8, -0.4}),
			Bias:       mat.NewVecDense(1, []float64{3}),
			Activation: gru.ActivationLinear,
		}},
	)
	if err != nil {
		t.Fatalf("artifacttest: model: %v", err)
	}

	return &artifact.Bundle{
		Config: artifact.Config{
			Window:              Window,
			NumericFeatures:     NumericFeatures,
			CategoricalFeatures: CategoricalFeatures,
		},
		Preprocessor: pre,
		Model:        model,
	}
}

// WriteDir writes Bundle into a fresh temporary directory and returns it.
func WriteDir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	if err := artifact.Write(dir, Bundle(t)); err != nil {
		t.Fatalf("artifacttest: write: %v", err)
	}
	return dir
}

// Rows returns n valid request rows.
func Rows(n int) []interface{} {
	clouds := []string{"clear", "cloudy", "unknown"}
	rows := make([]interface{}, n)
	for i := range rows {
		rows[i] = map[string]interface{}{
			"PM2.5":       float64(15 + i),
			"temperature": float64(8 + i%3),
			"clouds":      clouds[i%len(clouds)],
		}
	}
	return rows
}

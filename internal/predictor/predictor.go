package predictor

import (
	"gonum.org/v1/gonum/mat"
)

// Table is a window of rows assembled in the column order the preprocessor
// was fitted on: numeric columns first, categorical columns second.
type Table struct {
	NumericColumns     []string
	CategoricalColumns []string
	// Numeric holds one slice per row, len(NumericColumns) values each.
	Numeric [][]float64
	// Categorical holds one slice per row, len(CategoricalColumns) values each.
	Categorical [][]string
}

// Len returns the number of rows.
func (t Table) Len() int {
	if len(t.Numeric) > 0 {
		return len(t.Numeric)
	}
	return len(t.Categorical)
}

// Columns returns the full column order.
func (t Table) Columns() []string {
	cols := make([]string, 0, len(t.NumericColumns)+len(t.CategoricalColumns))
	cols = append(cols, t.NumericColumns...)
	return append(cols, t.CategoricalColumns...)
}

// Preprocessor is a fitted transform from a table to a numeric matrix with
// one row per table row. The result may be sparse.
type Preprocessor interface {
	Transform(t Table) (mat.Matrix, error)
	OutputDim() int
}

// Model is a fitted sequence regressor. Every element of the batch is a
// (window x InputDim) matrix; one scalar is returned per element.
type Model interface {
	Predict(batch []mat.Matrix) ([]float64, error)
	InputDim() int
}

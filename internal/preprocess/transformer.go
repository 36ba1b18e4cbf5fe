// Package preprocess implements the fitted column transformer applied to a
// request window before it reaches the model: standard scaling of numeric
// columns followed by one-hot encoding of categorical columns.
package preprocess

import (
	"fmt"
	"math"

	"github.com/airsense/pm10cast/internal/predictor"
	"gonum.org/v1/gonum/mat"
)

var _ predictor.Preprocessor = (*ColumnTransformer)(nil)

// DefaultSparseThreshold matches the density below which a stacked output
// containing one-hot blocks is returned in sparse form.
const DefaultSparseThreshold = 0.3

type ColumnTransformer struct {
	Numeric     StandardScaler `json:"numeric"`
	Categorical OneHotEncoder  `json:"categorical"`
	// SparseThreshold is compared against the output density. Zero disables
	// sparse output.
	SparseThreshold float64 `json:"sparse_threshold"`

	ready bool
}

// Init validates the fitted parameters and builds the category lookups. It
// must be called once before Transform.
func (c *ColumnTransformer) Init() error {
	if len(c.Numeric.Columns)+len(c.Categorical.Columns) == 0 {
		return fmt.Errorf("column transformer has no columns")
	}
	if c.SparseThreshold < 0 || c.SparseThreshold > 1 {
		return fmt.Errorf("sparse threshold %v is outside [0, 1]", c.SparseThreshold)
	}
	if err := c.Numeric.validate(); err != nil {
		return err
	}
	if err := c.Categorical.init(); err != nil {
		return err
	}
	c.ready = true
	return nil
}

// OutputDim is the number of columns Transform produces.
func (c *ColumnTransformer) OutputDim() int {
	return len(c.Numeric.Columns) + c.Categorical.width
}

// Columns returns the input columns in fitted order.
func (c *ColumnTransformer) Columns() []string {
	cols := make([]string, 0, len(c.Numeric.Columns)+len(c.Categorical.Columns))
	cols = append(cols, c.Numeric.Columns...)
	return append(cols, c.Categorical.Columns...)
}

func (c *ColumnTransformer) Transform(t predictor.Table) (mat.Matrix, error) {
	if !c.ready {
		return nil, fmt.Errorf("column transformer is not initialised")
	}
	if err := c.checkColumns(t); err != nil {
		return nil, err
	}

	rows, numDim := t.Len(), len(c.Numeric.Columns)
	width := c.OutputDim()
	dense := mat.NewDense(rows, width, nil)
	nnz := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < numDim; j++ {
			x := t.Numeric[i][j]
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("row %d: value of %q is not finite", i, c.Numeric.Columns[j])
			}
			v := c.Numeric.apply(j, x)
			if v != 0 {
				nnz++
			}
			dense.Set(i, j, v)
		}
		for j := range c.Categorical.Columns {
			idx, err := c.Categorical.index(j, t.Categorical[i][j])
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			if idx < 0 {
				continue
			}
			dense.Set(i, numDim+idx, 1)
			nnz++
		}
	}

	if !c.sparse(rows, width, nnz) {
		return dense, nil
	}
	b := newCSRBuilder(rows, width, nnz)
	for i := 0; i < rows; i++ {
		for j := 0; j < width; j++ {
			b.set(j, dense.At(i, j))
		}
		b.endRow()
	}
	return b.build(), nil
}

func (c *ColumnTransformer) sparse(rows, width, nnz int) bool {
	if len(c.Categorical.Columns) == 0 || c.SparseThreshold == 0 || rows*width == 0 {
		return false
	}
	return float64(nnz)/float64(rows*width) < c.SparseThreshold
}

func (c *ColumnTransformer) checkColumns(t predictor.Table) error {
	if !equalColumns(t.NumericColumns, c.Numeric.Columns) {
		return fmt.Errorf("numeric columns %v do not match fitted columns %v", t.NumericColumns, c.Numeric.Columns)
	}
	if !equalColumns(t.CategoricalColumns, c.Categorical.Columns) {
		return fmt.Errorf("categorical columns %v do not match fitted columns %v", t.CategoricalColumns, c.Categorical.Columns)
	}
	if len(c.Numeric.Columns) > 0 && len(t.Numeric) != t.Len() ||
		len(c.Categorical.Columns) > 0 && len(t.Categorical) != t.Len() {
		return fmt.Errorf("table row counts are inconsistent")
	}
	for i := 0; i < t.Len(); i++ {
		if len(c.Numeric.Columns) > 0 && len(t.Numeric[i]) != len(c.Numeric.Columns) {
			return fmt.Errorf("row %d has %d numeric values, expected %d", i, len(t.Numeric[i]), len(c.Numeric.Columns))
		}
		if len(c.Categorical.Columns) > 0 && len(t.Categorical[i]) != len(c.Categorical.Columns) {
			return fmt.Errorf("row %d has %d categorical values, expected %d", i, len(t.Categorical[i]), len(c.Categorical.Columns))
		}
	}
	return nil
}

func equalColumns(a, b []string) bool {
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

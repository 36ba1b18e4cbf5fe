package preprocess

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

var _ mat.Matrix = (*CSR)(nil)

// CSR is a read-only compressed sparse row matrix. Column indices within a
// row are strictly increasing.
type CSR struct {
	rows, cols int
	indptr     []int
	indices    []int
	data       []float64
}

// csrBuilder appends rows left to right.
type csrBuilder struct {
	m *CSR
}

func newCSRBuilder(rows, cols, nnz int) *csrBuilder {
	return &csrBuilder{m: &CSR{
		rows:    rows,
		cols:    cols,
		indptr:  make([]int, 1, rows+1),
		indices: make([]int, 0, nnz),
		data:    make([]float64, 0, nnz),
	}}
}

func (b *csrBuilder) set(col int, v float64) {
	if v == 0 {
		return
	}
	b.m.indices = append(b.m.indices, col)
	b.m.data = append(b.m.data, v)
}

func (b *csrBuilder) endRow() {
	b.m.indptr = append(b.m.indptr, len(b.m.indices))
}

func (b *csrBuilder) build() *CSR {
	return b.m
}

func (c *CSR) Dims() (r, cc int) {
	return c.rows, c.cols
}

func (c *CSR) At(i, j int) float64 {
	if i < 0 || i >= c.rows {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= c.cols {
		panic(mat.ErrColAccess)
	}
	lo, hi := c.indptr[i], c.indptr[i+1]
	idx := c.indices[lo:hi]
	k := sort.SearchInts(idx, j)
	if k < len(idx) && idx[k] == j {
		return c.data[lo+k]
	}
	return 0
}

func (c *CSR) T() mat.Matrix {
	return mat.Transpose{Matrix: c}
}

// NNZ returns the number of stored non-zero values.
func (c *CSR) NNZ() int {
	return len(c.data)
}

// ToDense materialises the matrix.
func (c *CSR) ToDense() *mat.Dense {
	d := mat.NewDense(c.rows, c.cols, nil)
	for i := 0; i < c.rows; i++ {
		for k := c.indptr[i]; k < c.indptr[i+1]; k++ {
			d.Set(i, c.indices[k], c.data[k])
		}
	}
	return d
}

// Densify returns m as a *mat.Dense, copying only when m is not dense already.
func Densify(m mat.Matrix) *mat.Dense {
	switch v := m.(type) {
	case *mat.Dense:
		return v
	case *CSR:
		return v.ToDense()
	default:
		return mat.DenseCopyOf(m)
	}
}

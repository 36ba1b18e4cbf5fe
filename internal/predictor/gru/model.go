// Package gru implements inference for a stacked GRU sequence regressor
// with a dense head.
package gru

import (
	"fmt"
	"math"

	"github.com/airsense/pm10cast/internal/predictor"
	"gonum.org/v1/gonum/mat"
)

var _ predictor.Model = (*Model)(nil)

// Model runs the recurrent stack over the sequence, takes the last hidden
// state of the final recurrent layer and feeds it through the dense head.
type Model struct {
	inputDim  int
	recurrent []Recurrent
	head      []Dense
}

// New checks that layer shapes chain from inputDim to a single output unit.
func New(inputDim int, recurrent []Recurrent, head []Dense) (*Model, error) {
	if inputDim <= 0 {
		return nil, fmt.Errorf("input dimension must be positive, got %d", inputDim)
	}
	if len(recurrent) == 0 {
		return nil, fmt.Errorf("model has no recurrent layers")
	}
	dim := inputDim
	for i, l := range recurrent {
		if err := l.validate(dim); err != nil {
			return nil, fmt.Errorf("recurrent layer %d: %w", i, err)
		}
		dim = l.Units()
	}
	for i, l := range head {
		if err := l.validate(dim); err != nil {
			return nil, fmt.Errorf("dense layer %d: %w", i, err)
		}
		dim = l.Units()
	}
	if dim != 1 {
		return nil, fmt.Errorf("model must produce a single output, got %d", dim)
	}
	return &Model{inputDim: inputDim, recurrent: recurrent, head: head}, nil
}

func (m *Model) InputDim() int {
	return m.inputDim
}

func (m *Model) Recurrent() []Recurrent {
	return m.recurrent
}

func (m *Model) Head() []Dense {
	return m.head
}

func (m *Model) Predict(batch []mat.Matrix) ([]float64, error) {
	out := make([]float64, len(batch))
	for i, seq := range batch {
		y, err := m.predict(seq)
		if err != nil {
			return nil, fmt.Errorf("batch element %d: %w", i, err)
		}
		out[i] = y
	}
	return out, nil
}

func (m *Model) predict(seq mat.Matrix) (float64, error) {
	steps, dim := seq.Dims()
	if steps == 0 {
		return 0, fmt.Errorf("empty sequence")
	}
	if dim != m.inputDim {
		return 0, fmt.Errorf("sequence has %d features, model expects %d", dim, m.inputDim)
	}

	x, ok := seq.(*mat.Dense)
	if !ok {
		x = mat.DenseCopyOf(seq)
	}
	for _, l := range m.recurrent {
		x = l.run(x)
	}

	var v mat.Vector = x.RowView(steps - 1)
	for _, l := range m.head {
		y, err := l.forward(v)
		if err != nil {
			return 0, err
		}
		v = y
	}

	res := v.AtVec(0)
	if math.IsNaN(res) || math.IsInf(res, 0) {
		return 0, fmt.Errorf("model produced a non-finite value")
	}
	return res, nil
}

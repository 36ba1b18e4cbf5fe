package gru

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

type Activation string

const (
	ActivationLinear Activation = "linear"
	ActivationReLU   Activation = "relu"
)

func (a Activation) apply(v *mat.VecDense) error {
	switch a {
	case ActivationLinear, "":
		return nil
	case ActivationReLU:
		for i := 0; i < v.Len(); i++ {
			if v.AtVec(i) < 0 {
				v.SetVec(i, 0)
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported activation %q", a)
	}
}

// Recurrent is a gated recurrent unit layer with the reset gate applied
// after the recurrent matrix multiplication. Gate blocks are laid out as
// update (z), reset (r), candidate (h) along the second axis.
type Recurrent struct {
	// Kernel is (inputDim x 3*units).
	Kernel *mat.Dense
	// RecurrentKernel is (units x 3*units).
	RecurrentKernel *mat.Dense
	// Bias and RecurrentBias have 3*units entries each.
	Bias          *mat.VecDense
	RecurrentBias *mat.VecDense
}

// Units is the size of the hidden state.
func (l Recurrent) Units() int {
	_, c := l.Kernel.Dims()
	return c / 3
}

func (l Recurrent) inputDim() int {
	r, _ := l.Kernel.Dims()
	return r
}

func (l Recurrent) validate(inputDim int) error {
	if l.Kernel == nil || l.RecurrentKernel == nil || l.Bias == nil || l.RecurrentBias == nil {
		return fmt.Errorf("recurrent layer is incomplete")
	}
	r, c := l.Kernel.Dims()
	if c == 0 || c%3 != 0 {
		return fmt.Errorf("kernel width %d is not a multiple of 3", c)
	}
	if r != inputDim {
		return fmt.Errorf("kernel expects %d inputs, got %d", r, inputDim)
	}
	units := c / 3
	if rr, rc := l.RecurrentKernel.Dims(); rr != units || rc != c {
		return fmt.Errorf("recurrent kernel is %dx%d, expected %dx%d", rr, rc, units, c)
	}
	if l.Bias.Len() != c || l.RecurrentBias.Len() != c {
		return fmt.Errorf("biases must have %d entries", c)
	}
	return nil
}

// run feeds the sequence (steps x inputDim) through the layer and returns
// the hidden state after every step (steps x units).
func (l Recurrent) run(seq *mat.Dense) *mat.Dense {
	steps, _ := seq.Dims()
	units := l.Units()
	out := mat.NewDense(steps, units, nil)

	h := mat.NewVecDense(units, nil)
	var xw, hu mat.VecDense
	for t := 0; t < steps; t++ {
		xw.MulVec(l.Kernel.T(), seq.RowView(t))
		xw.AddVec(&xw, l.Bias)
		hu.MulVec(l.RecurrentKernel.T(), h)
		hu.AddVec(&hu, l.RecurrentBias)

		next := mat.NewVecDense(units, nil)
		for j := 0; j < units; j++ {
			z := sigmoid(xw.AtVec(j) + hu.AtVec(j))
			r := sigmoid(xw.AtVec(units+j) + hu.AtVec(units+j))
			cand := math.Tanh(xw.AtVec(2*units+j) + r*hu.AtVec(2*units+j))
			next.SetVec(j, z*h.AtVec(j)+(1-z)*cand)
		}
		h = next
		out.SetRow(t, h.RawVector().Data)
	}
	return out
}

// Dense is a fully connected layer.
type Dense struct {
	// Kernel is (inputDim x units).
	Kernel     *mat.Dense
	Bias       *mat.VecDense
	Activation Activation
}

func (l Dense) Units() int {
	_, c := l.Kernel.Dims()
	return c
}

func (l Dense) validate(inputDim int) error {
	if l.Kernel == nil || l.Bias == nil {
		return fmt.Errorf("dense layer is incomplete")
	}
	r, c := l.Kernel.Dims()
	if r != inputDim {
		return fmt.Errorf("kernel expects %d inputs, got %d", r, inputDim)
	}
	if l.Bias.Len() != c {
		return fmt.Errorf("bias has %d entries, expected %d", l.Bias.Len(), c)
	}
	switch l.Activation {
	case ActivationLinear, ActivationReLU, "":
	default:
		return fmt.Errorf("unsupported activation %q", l.Activation)
	}
	return nil
}

func (l Dense) forward(x mat.Vector) (*mat.VecDense, error) {
	var y mat.VecDense
	y.MulVec(l.Kernel.T(), x)
	y.AddVec(&y, l.Bias)
	if err := l.Activation.apply(&y); err != nil {
		return nil, err
	}
	return &y, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

package gru

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func newTestModel(t *testing.T, activation Activation) *Model {
	t.Helper()
	m, err := New(1,
		[]Recurrent{{
			Kernel:          mat.NewDense(1, 3, []float64{0, 0, 1}),
			RecurrentKernel: mat.NewDense(1, 3, []float64{0, 0, 1}),
			Bias:            mat.NewVecDense(3, nil),
			RecurrentBias:   mat.NewVecDense(3, nil),
		}},
		[]Dense{{
			Kernel:     mat.NewDense(1, 1, []float64{2}),
			Bias:       mat.NewVecDense(1, []float64{1}),
			Activation: activation,
		}},
	)
	if err != nil {
		t.Fatalf("unable create model: %v", err)
	}
	return m
}

func TestModel_Predict(t *testing.T) {
	t.Parallel()
	h1 := 0.5 * math.Tanh(1)
	// second step: z = r = 0.5, candidate = tanh(0 + 0.5*h1)
	h2 := 0.5*h1 + 0.5*math.Tanh(0.5*h1)
	tests := []struct {
		name     string
		seq      mat.Matrix
		expected float64
	}{
		{name: "one_step", seq: mat.NewDense(1, 1, []float64{1}), expected: 2*h1 + 1},
		{name: "two_steps", seq: mat.NewDense(2, 1, []float64{1, 0}), expected: 2*h2 + 1},
		{name: "transposed_input", seq: mat.NewDense(1, 2, []float64{1, 0}).T(), expected: 2*h2 + 1},
	}
	m := newTestModel(t, ActivationLinear)
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got, err := m.Predict([]mat.Matrix{test.seq})
			if err != nil {
				t.Fatalf("the error should not be returned: %v", err)
			}
			if len(got) != 1 || math.Abs(got[0]-test.expected) > 1e-12 {
				t.Errorf("prediction got: %v, expected: %v", got, test.expected)
			}
		})
	}
}

func TestModel_PredictReLU(t *testing.T) {
	t.Parallel()
	m, err := New(1,
		[]Recurrent{{
			Kernel:          mat.NewDense(1, 3, []float64{0, 0, 1}),
			RecurrentKernel: mat.NewDense(1, 3, nil),
			Bias:            mat.NewVecDense(3, nil),
			RecurrentBias:   mat.NewVecDense(3, nil),
		}},
		[]Dense{
			{Kernel: mat.NewDense(1, 1, []float64{-1}), Bias: mat.NewVecDense(1, nil), Activation: ActivationReLU},
			{Kernel: mat.NewDense(1, 1, []float64{1}), Bias: mat.NewVecDense(1, []float64{3})},
		},
	)
	if err != nil {
		t.Fatalf("unable create model: %v", err)
	}
	got, err := m.Predict([]mat.Matrix{mat.NewDense(1, 1, []float64{1})})
	if err != nil {
		t.Fatalf("the error should not be returned: %v", err)
	}
	if got[0] != 3 {
		t.Errorf("relu must clamp the negative hidden unit, got: %v, expected: 3", got[0])
	}
}

func TestModel_PredictDimMismatch(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, ActivationLinear)
	if _, err := m.Predict([]mat.Matrix{mat.NewDense(2, 2, nil)}); err == nil {
		t.Errorf("a sequence with the wrong feature count must be rejected")
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	gru := Recurrent{
		Kernel:          mat.NewDense(2, 6, nil),
		RecurrentKernel: mat.NewDense(2, 6, nil),
		Bias:            mat.NewVecDense(6, nil),
		RecurrentBias:   mat.NewVecDense(6, nil),
	}
	head := Dense{Kernel: mat.NewDense(2, 1, nil), Bias: mat.NewVecDense(1, nil)}
	tests := []struct {
		name      string
		inputDim  int
		recurrent []Recurrent
		head      []Dense
		wantErr   bool
	}{
		{name: "positive", inputDim: 2, recurrent: []Recurrent{gru}, head: []Dense{head}},
		{name: "input_dim_mismatch", inputDim: 3, recurrent: []Recurrent{gru}, head: []Dense{head}, wantErr: true},
		{name: "no_recurrent", inputDim: 2, head: []Dense{head}, wantErr: true},
		{name: "multi_output", inputDim: 2, recurrent: []Recurrent{gru}, wantErr: true},
		{
			name:      "bad_activation",
			inputDim:  2,
			recurrent: []Recurrent{gru},
			head:      []Dense{{Kernel: head.Kernel, Bias: head.Bias, Activation: "softmax"}},
			wantErr:   true,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(test.inputDim, test.recurrent, test.head)
			if (err != nil) != test.wantErr {
				t.Errorf("creating model, err got: %v, expected error: %v", err, test.wantErr)
			}
		})
	}
}

package artifact

import (
	"bufio"
	"fmt"
	"os"

	"github.com/airsense/pm10cast/internal/predictor/gru"
	xdr "github.com/davecgh/go-xdr/xdr2"
	"gonum.org/v1/gonum/mat"
)

const (
	modelMagic   = "PM10GRU"
	modelVersion = 1
)

// modelFile is the XDR layout of the model artifact. Matrices are stored
// row-major.
type modelFile struct {
	Magic     string
	Version   uint32
	InputDim  int32
	Recurrent []recurrentFile
	Dense     []denseFile
}

type recurrentFile struct {
	Units           int32
	Kernel          []float64
	RecurrentKernel []float64
	Bias            []float64
	RecurrentBias   []float64
}

type denseFile struct {
	Units      int32
	Activation string
	Kernel     []float64
	Bias       []float64
}

func LoadModel(path string) (*gru.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var mf modelFile
	if _, err := xdr.Unmarshal(bufio.NewReader(f), &mf); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if mf.Magic != modelMagic {
		return nil, fmt.Errorf("decode %s: not a model artifact", path)
	}
	if mf.Version != modelVersion {
		return nil, fmt.Errorf("decode %s: unsupported version %d", path, mf.Version)
	}

	m, err := mf.model()
	if err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return m, nil
}

func WriteModel(path string, m *gru.Model) error {
	mf := modelFile{
		Magic:    modelMagic,
		Version:  modelVersion,
		InputDim: int32(m.InputDim()),
	}
	for _, l := range m.Recurrent() {
		mf.Recurrent = append(mf.Recurrent, recurrentFile{
			Units:           int32(l.Units()),
			Kernel:          rawMatrix(l.Kernel),
			RecurrentKernel: rawMatrix(l.RecurrentKernel),
			Bias:            rawVector(l.Bias),
			RecurrentBias:   rawVector(l.RecurrentBias),
		})
	}
	for _, l := range m.Head() {
		mf.Dense = append(mf.Dense, denseFile{
			Units:      int32(l.Units()),
			Activation: string(l.Activation),
			Kernel:     rawMatrix(l.Kernel),
			Bias:       rawVector(l.Bias),
		})
	}
	return writeFile(path, func(w *fileWriter) error {
		_, err := xdr.Marshal(w, &mf)
		return err
	})
}

func (mf modelFile) model() (*gru.Model, error) {
	dim := int(mf.InputDim)
	if dim <= 0 {
		return nil, fmt.Errorf("input dimension must be positive, got %d", dim)
	}
	recurrent := make([]gru.Recurrent, 0, len(mf.Recurrent))
	for i, l := range mf.Recurrent {
		units := int(l.Units)
		if units <= 0 {
			return nil, fmt.Errorf("recurrent layer %d: units must be positive", i)
		}
		kernel, err := denseOf(dim, 3*units, l.Kernel)
		if err != nil {
			return nil, fmt.Errorf("recurrent layer %d kernel: %w", i, err)
		}
		rec, err := denseOf(units, 3*units, l.RecurrentKernel)
		if err != nil {
			return nil, fmt.Errorf("recurrent layer %d recurrent kernel: %w", i, err)
		}
		bias, err := vecOf(3*units, l.Bias)
		if err != nil {
			return nil, fmt.Errorf("recurrent layer %d bias: %w", i, err)
		}
		recBias, err := vecOf(3*units, l.RecurrentBias)
		if err != nil {
			return nil, fmt.Errorf("recurrent layer %d recurrent bias: %w", i, err)
		}
		recurrent = append(recurrent, gru.Recurrent{
			Kernel:          kernel,
			RecurrentKernel: rec,
			Bias:            bias,
			RecurrentBias:   recBias,
		})
		dim = units
	}
	head := make([]gru.Dense, 0, len(mf.Dense))
	for i, l := range mf.Dense {
		units := int(l.Units)
		if units <= 0 {
			return nil, fmt.Errorf("dense layer %d: units must be positive", i)
		}
		kernel, err := denseOf(dim, units, l.Kernel)
		if err != nil {
			return nil, fmt.Errorf("dense layer %d kernel: %w", i, err)
		}
		bias, err := vecOf(units, l.Bias)
		if err != nil {
			return nil, fmt.Errorf("dense layer %d bias: %w", i, err)
		}
		head = append(head, gru.Dense{Kernel: kernel, Bias: bias, Activation: gru.Activation(l.Activation)})
		dim = units
	}
	return gru.New(int(mf.InputDim), recurrent, head)
}

func denseOf(r, c int, data []float64) (*mat.Dense, error) {
	if len(data) != r*c {
		return nil, fmt.Errorf("%d values for a %dx%d matrix", len(data), r, c)
	}
	return mat.NewDense(r, c, data), nil
}

func vecOf(n int, data []float64) (*mat.VecDense, error) {
	if len(data) != n {
		return nil, fmt.Errorf("%d values for a vector of %d", len(data), n)
	}
	return mat.NewVecDense(n, data), nil
}

func rawMatrix(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, m.RawRowView(i)...)
	}
	return out
}

func rawVector(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

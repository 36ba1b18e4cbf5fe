// Package inference turns a decoded /predict body into a PM10 value using
// the loaded preprocessor and model.
package inference

import (
	"context"
	"fmt"
	"math"
	"runtime/debug"

	"github.com/airsense/pm10cast/internal/artifact"
	"github.com/airsense/pm10cast/internal/logging"
	"github.com/airsense/pm10cast/internal/payload"
	"github.com/airsense/pm10cast/internal/predictor"
	"github.com/airsense/pm10cast/internal/preprocess"
	"github.com/airsense/pm10cast/internal/util"
	"gonum.org/v1/gonum/mat"
)

// Cache stores predictions by table hash. Failures never fail a request.
type Cache interface {
	Get(ctx context.Context, key string) (float64, bool, error)
	Set(ctx context.Context, key string, value float64) error
}

// Recorder receives every successful prediction.
type Recorder interface {
	Record(ctx context.Context, key string, prediction float64)
}

// Error wraps failures of the transform or model step.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// Service is built once at startup and is safe for concurrent use; nothing
// in it changes after New returns.
type Service struct {
	window       int
	numeric      []string
	categorical  []string
	preprocessor predictor.Preprocessor
	model        predictor.Model
	cache        Cache
	recorder     Recorder
}

func New(cfg artifact.Config, pre predictor.Preprocessor, model predictor.Model, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}
	if pre == nil || model == nil {
		return nil, fmt.Errorf("inference: preprocessor and model are required")
	}
	if pre.OutputDim() != model.InputDim() {
		return nil, fmt.Errorf("inference: preprocessor produces %d features, model expects %d",
			pre.OutputDim(), model.InputDim())
	}
	s := &Service{
		window:       cfg.Window,
		numeric:      append([]string(nil), cfg.NumericFeatures...),
		categorical:  append([]string(nil), cfg.CategoricalFeatures...),
		preprocessor: pre,
		model:        model,
	}
	for _, f := range opts {
		f(s)
	}
	return s, nil
}

func NewFromBundle(b *artifact.Bundle, opts ...Option) (*Service, error) {
	return New(b.Config, b.Preprocessor, b.Model, opts...)
}

func (s *Service) Window() int {
	return s.window
}

// Predict validates the decoded body, assembles the window and returns the
// prediction on the original PM10 scale.
func (s *Service) Predict(ctx context.Context, body interface{}) (float64, error) {
	rows, err := payload.Validate(body, s.window)
	if err != nil {
		return 0, err
	}
	t, err := payload.Assemble(rows, s.numeric, s.categorical)
	if err != nil {
		return 0, err
	}

	logger := logging.FromContext(ctx)
	var key string
	if s.cache != nil || s.recorder != nil {
		key = util.HashTable(t)
	}
	if s.cache != nil {
		v, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.Warnf("prediction cache get: %v", err)
		} else if ok {
			logger.Debugf("prediction cache hit %s", key)
			if s.recorder != nil {
				s.recorder.Record(ctx, key, v)
			}
			return v, nil
		}
	}

	pred, err := s.infer(ctx, t)
	if err != nil {
		return 0, &Error{Err: err}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, pred); err != nil {
			logger.Warnf("prediction cache set: %v", err)
		}
	}
	if s.recorder != nil {
		s.recorder.Record(ctx, key, pred)
	}
	return pred, nil
}

func (s *Service) infer(ctx context.Context, t predictor.Table) (pred float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).Errorf("inference panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("inference failed: %v", r)
		}
	}()

	x, err := s.preprocessor.Transform(t)
	if err != nil {
		return 0, fmt.Errorf("transform: %w", err)
	}
	dense := preprocess.Densify(x)
	rows, cols := dense.Dims()
	if rows != s.window || cols != s.model.InputDim() {
		return 0, fmt.Errorf("cannot reshape %dx%d features into (1, %d, %d)", rows, cols, s.window, s.model.InputDim())
	}

	out, err := s.model.Predict([]mat.Matrix{dense})
	if err != nil {
		return 0, fmt.Errorf("model: %w", err)
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("model returned %d values for one sequence", len(out))
	}

	pred = math.Expm1(out[0])
	if math.IsNaN(pred) || math.IsInf(pred, 0) {
		return 0, fmt.Errorf("prediction is not a finite number")
	}
	return pred, nil
}

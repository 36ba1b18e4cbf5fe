package predict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/airsense/pm10cast/internal/httputil"
	"github.com/airsense/pm10cast/internal/logging"
	"github.com/airsense/pm10cast/internal/payload"
	"github.com/google/uuid"
)

// Predictor turns a decoded request body into a PM10 value.
type Predictor interface {
	Predict(ctx context.Context, body interface{}) (float64, error)
}

type response struct {
	Prediction float64 `json:"prediction"`
}

func NewHandler(cfg *Config, predictor Predictor) (http.Handler, error) {
	if predictor == nil {
		return nil, fmt.Errorf("predict: predictor is required")
	}
	if cfg == nil {
		cfg = &Config{MaxBodyBytes: defaultMaxBodyBytes}
	}
	return &handler{
		cfg:       cfg,
		predictor: predictor,
	}, nil
}

type handler struct {
	predictor Predictor
	cfg       *Config
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context()).With("request_id", uuid.NewString())
	ctx := logging.WithLogger(r.Context(), logger)

	defer func() {
		if p := recover(); p != nil {
			logger.Errorf("predict handler panic: %v\n%s", p, debug.Stack())
			httputil.RespBadRequest(ctx, w, "%v", p)
		}
	}()

	if !isJSON(r.Header.Get("Content-Type")) {
		logger.Debugf("content-type %q is not application/json", r.Header.Get("Content-Type"))
		httputil.RespBadRequest(ctx, w, "%s", payload.MsgInvalidBody)
		return
	}

	defer r.Body.Close()

	if h.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
	}
	body, err := decode(r.Body)
	if err != nil {
		httputil.DecodeErr(ctx, w, err, payload.MsgInvalidBody)
		return
	}

	prediction, err := h.predictor.Predict(ctx, body)
	if err != nil {
		var pErr *payload.Error
		if errors.As(err, &pErr) {
			logger.Debugf("rejected request (%s): %v", pErr.Kind, err)
		} else {
			logger.Warnf("prediction failed: %v", err)
		}
		httputil.RespBadRequest(ctx, w, "%s", err.Error())
		return
	}

	logger.Debugf("prediction %v", prediction)
	httputil.RespJSON(ctx, w, http.StatusOK, response{Prediction: prediction})
}

// decode reads exactly one JSON value, keeping numbers as json.Number.
func decode(r io.Reader) (interface{}, error) {
	d := json.NewDecoder(r)
	d.UseNumber()
	var v interface{}
	if err := d.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := d.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = fmt.Errorf("unexpected data after top-level value")
		}
		return nil, err
	}
	return v, nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

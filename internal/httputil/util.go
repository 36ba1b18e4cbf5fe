package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/airsense/pm10cast/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

// DecodeErr logs why the request body could not be decoded and answers
// with msg.
func DecodeErr(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	logger := logging.FromContext(ctx)
	var (
		syntaxErr   *json.SyntaxError
		maxBytesErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &syntaxErr):
		logger.Debugf("malformed json at position %v", syntaxErr.Offset)
	case errors.Is(err, io.ErrUnexpectedEOF):
		logger.Debug("malformed json")
	case errors.Is(err, io.EOF):
		logger.Debug("body must not be empty")
	case errors.As(err, &maxBytesErr):
		logger.Debugf("body exceeds %d bytes", maxBytesErr.Limit)
	default:
		logger.Debugf("failed to decode json %v", err)
	}
	RespBadRequest(ctx, w, "%s", msg)
}

func RespBadRequest(ctx context.Context, w http.ResponseWriter, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logging.FromContext(ctx).Debug(msg)
	RespJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: msg})
}

// RespJSON writes v as the JSON response body with the given status.
func RespJSON(ctx context.Context, w http.ResponseWriter, status int, v interface{}) {
	bytes, err := json.Marshal(v)
	if err != nil {
		logging.FromContext(ctx).Errorf("failed to encode output json %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(bytes)
}

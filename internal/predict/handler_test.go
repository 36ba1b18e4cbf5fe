package predict

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/airsense/pm10cast/internal/artifact/artifacttest"
	"github.com/airsense/pm10cast/internal/inference"
	"github.com/airsense/pm10cast/internal/payload"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

type predictorFunc func(ctx context.Context, body interface{}) (float64, error)

func (f predictorFunc) Predict(ctx context.Context, body interface{}) (float64, error) {
	return f(ctx, body)
}

func serve(t *testing.T, h http.Handler, contentType, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response %q is not json: %v", rec.Body.String(), err)
	}
	return rec.Code, resp
}

func TestHandler_BadRequests(t *testing.T) {
	called := false
	h, err := NewHandler(&Config{MaxBodyBytes: 64}, predictorFunc(func(ctx context.Context, body interface{}) (float64, error) {
		called = true
		return 1, nil
	}))
	require.NoError(t, err)

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{name: "no_content_type", body: `{"data": []}`},
		{name: "text_plain", contentType: "text/plain", body: `{"data": []}`},
		{name: "empty_body", contentType: "application/json", body: ``},
		{name: "malformed", contentType: "application/json", body: `{"data": [`},
		{name: "trailing_data", contentType: "application/json", body: `{"data": []} {}`},
		{name: "too_large", contentType: "application/json", body: `{"data": "` + strings.Repeat("x", 128) + `"}`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, resp := serve(t, h, test.contentType, test.body)
			if code != http.StatusBadRequest {
				t.Errorf("status got: %v, expected: %v", code, http.StatusBadRequest)
			}
			if resp["error"] != payload.MsgInvalidBody {
				t.Errorf("error got: %v, expected: %v", resp["error"], payload.MsgInvalidBody)
			}
		})
	}
	if called {
		t.Error("predictor must not be called for undecodable requests")
	}
}

func TestHandler_PredictorErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "payload_error",
			err:      &payload.Error{Kind: payload.KindData, Msg: "missing 'data' field in JSON body"},
			expected: "missing 'data' field in JSON body",
		},
		{
			name:     "inference_error",
			err:      &inference.Error{Err: errors.New("inference failed: boom")},
			expected: "inference failed: boom",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h, err := NewHandler(&Config{}, predictorFunc(func(ctx context.Context, body interface{}) (float64, error) {
				return 0, test.err
			}))
			require.NoError(t, err)

			code, resp := serve(t, h, "application/json", `{}`)
			require.Equal(t, http.StatusBadRequest, code)
			require.Equal(t, test.expected, resp["error"])
		})
	}
}

func TestHandler_RecoversPanic(t *testing.T) {
	h, err := NewHandler(&Config{}, predictorFunc(func(ctx context.Context, body interface{}) (float64, error) {
		panic("unexpected")
	}))
	require.NoError(t, err)

	code, resp := serve(t, h, "application/json", `{"data": []}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "unexpected", resp["error"])
}

func TestHandler_DecodesNumbers(t *testing.T) {
	var got interface{}
	h, err := NewHandler(&Config{}, predictorFunc(func(ctx context.Context, body interface{}) (float64, error) {
		got = body
		return 42.5, nil
	}))
	require.NoError(t, err)

	code, resp := serve(t, h, "application/json; charset=utf-8", `{"data": [{"x": 1.25}]}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 42.5, resp["prediction"])

	row := got.(map[string]interface{})["data"].([]interface{})[0].(map[string]interface{})
	if _, ok := row["x"].(json.Number); !ok {
		t.Errorf("numbers must be decoded as json.Number, got %s", spew.Sdump(row["x"]))
	}
}

func TestHandler_WithService(t *testing.T) {
	svc, err := inference.NewFromBundle(artifacttest.Bundle(t))
	require.NoError(t, err)
	h, err := NewHandler(&Config{MaxBodyBytes: 1 << 20}, svc)
	require.NoError(t, err)

	body, err := json.Marshal(map[string]interface{}{"data": artifacttest.Rows(artifacttest.Window)})
	require.NoError(t, err)

	code, resp := serve(t, h, "application/json", string(body))
	require.Equal(t, http.StatusOK, code, spew.Sdump(resp))
	prediction, ok := resp["prediction"].(float64)
	require.True(t, ok, spew.Sdump(resp))
	require.False(t, math.IsNaN(prediction) || math.IsInf(prediction, 0))

	short, err := json.Marshal(map[string]interface{}{"data": artifacttest.Rows(artifacttest.Window - 1)})
	require.NoError(t, err)
	code, resp = serve(t, h, "application/json", string(short))
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "'data' must have exactly 3 rows, got 2", resp["error"])

	rows := artifacttest.Rows(artifacttest.Window)
	for _, r := range rows {
		delete(r.(map[string]interface{}), "temperature")
	}
	missing, err := json.Marshal(map[string]interface{}{"data": rows})
	require.NoError(t, err)
	code, resp = serve(t, h, "application/json", string(missing))
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "missing required columns: temperature", resp["error"])
}

func TestNewHandler_RequiresPredictor(t *testing.T) {
	if _, err := NewHandler(&Config{}, nil); err == nil {
		t.Error("expected error for nil predictor")
	}
}

func TestNewHandler_NilConfig(t *testing.T) {
	h, err := NewHandler(nil, predictorFunc(func(ctx context.Context, body interface{}) (float64, error) {
		return 1.5, nil
	}))
	require.NoError(t, err)

	code, resp := serve(t, h, "application/json", `{"data": []}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 1.5, resp["prediction"])

	big := `{"data": [], "pad": "` + strings.Repeat("x", defaultMaxBodyBytes) + `"}`
	code, _ = serve(t, h, "application/json", big)
	require.Equal(t, http.StatusBadRequest, code)
}

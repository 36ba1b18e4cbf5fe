package server

import (
	"fmt"
	"net/http"

	"github.com/airsense/pm10cast/internal/inference"
	"github.com/airsense/pm10cast/internal/predict"
)

// Routes wires the HTTP surface of the inference service.
func Routes(cfg *predict.Config, svc *inference.Service) (http.Handler, error) {
	predictHandler, err := predict.NewHandler(cfg, svc)
	if err != nil {
		return nil, fmt.Errorf("predict.NewHandler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /predict", predictHandler)
	mux.Handle("GET /health", HandleHealth(svc.Window()))
	return mux, nil
}

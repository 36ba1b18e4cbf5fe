package server

import (
	"context"
	"net/http"

	"github.com/airsense/pm10cast/internal/httputil"
	"github.com/airsense/pm10cast/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type healthResponse struct {
	Status string `json:"status"`
	Window int    `json:"window"`
}

// HandleHealth reports liveness together with the configured window.
func HandleHealth(window int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok", Window: window})
	})
}

// NewGRPCHealth returns a grpc server exposing grpc.health.v1 with every
// service marked SERVING. The status flips to NOT_SERVING once ctx is done.
func NewGRPCHealth(ctx context.Context, opts ...grpc.ServerOption) *grpc.Server {
	logger := logging.FromContext(ctx)
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	srv := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(srv, hs)

	go func() {
		<-ctx.Done()
		logger.Debugf("server: grpc health not serving")
		hs.Shutdown()
	}()
	return srv
}

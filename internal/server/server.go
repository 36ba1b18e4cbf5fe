package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/airsense/pm10cast/internal/logging"
	"google.golang.org/grpc"
)

type Server struct {
	addr     string
	listener net.Listener
}

func New(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to create listener on %s: %w", addr, err)
	}

	return &Server{
		addr:     listener.Addr().String(),
		listener: listener,
	}, nil
}

// Addr is the address the listener is bound to.
func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) ServeHTTP(ctx context.Context, srv *http.Server) error {
	logger := logging.FromContext(ctx)
	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()

		logger.Debugf("server.Serve: context closed")
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()

		logger.Debugf("server.Serve: shutting down")
		shutdownDone <- srv.Shutdown(shutdownCtx)
	}()

	if srv.BaseContext == nil {
		srv.BaseContext = func(net.Listener) context.Context {
			return logging.WithLogger(context.Background(), logger)
		}
	}

	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}

	// Serve returns as soon as Shutdown starts; in-flight requests finish
	// before Shutdown does.
	if err := <-shutdownDone; err != nil {
		return fmt.Errorf("failed to shutdown: %w", err)
	}

	logger.Debugf("server.Serve: serving stopped")
	return nil
}

func (s *Server) ServeHTTPHandler(ctx context.Context, handler http.Handler) error {
	return s.ServeHTTP(ctx, &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	})
}

// ServeGRPC serves srv on the server's listener until ctx is done.
func (s *Server) ServeGRPC(ctx context.Context, srv *grpc.Server) error {
	logger := logging.FromContext(ctx)
	logger.Debugf("server: grpc serving on %s", s.addr)
	go func() {
		<-ctx.Done()
		logger.Debugf("server: grpc context closed")
		srv.GracefulStop()
	}()

	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("failed to serve grpc: %w", err)
	}

	logger.Debugf("server: grpc serving stopped")
	return nil
}

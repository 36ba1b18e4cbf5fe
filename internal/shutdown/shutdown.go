// Package shutdown provides a context that is canceled on SIGINT or SIGTERM.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New returns a context that is canceled when the process receives an
// interrupt or termination signal, and a function that releases the signal
// handler.
func New() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-signalCh:
		case <-ctx.Done():
		}
		cancel()
	}()

	return ctx, func() {
		signal.Stop(signalCh)
		cancel()
	}
}

// Package signals wires SIGINT/SIGTERM to context cancellation so one-shot
// provisioning commands abort their child processes on termination while
// deferred cleanup still runs.
package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// Setup returns a context that is cancelled when SIGINT or SIGTERM arrives.
func Setup() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Warn().Str("signal", sig.String()).Msg("signal received, aborting")
		cancel()
	}()

	return ctx
}

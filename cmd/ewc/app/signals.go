package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sonemaro/ewc/pkg/logger"
)

// setupSignalHandling cancels the run on the first SIGINT or SIGTERM and
// exits immediately on the second. The returned func releases the handler.
func (a *App) setupSignalHandling() func() {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go a.handleSignals(sigChan, done)

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

// handleSignals processes incoming system signals until done is closed
func (a *App) handleSignals(sigChan <-chan os.Signal, done <-chan struct{}) {
	interrupted := false
	for {
		select {
		case <-done:
			return
		case sig := <-sigChan:
			a.log.WithFields(logger.Fields{
				"signal": sig.String(),
			}).Debug("Received system signal")

			if interrupted {
				a.log.Warn("Received second interrupt, exiting")
				a.exit(ExitFailure)
				return
			}
			interrupted = true

			a.log.Info("Cancelling run")
			a.cancel()
		}
	}
}

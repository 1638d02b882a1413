// FILE: jsonsieve/src/cmd/jsonsieve/signal.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/log"
)

// SignalHandler waits for termination while serving.
// SIGUSR1 asks for an immediate status report.
type SignalHandler struct {
	onStatus func()
	logger   *log.Logger
	sigChan  chan os.Signal
}

func NewSignalHandler(onStatus func(), logger *log.Logger) *SignalHandler {
	sh := &SignalHandler{
		onStatus: onStatus,
		logger:   logger,
		sigChan:  make(chan os.Signal, 1),
	}

	signal.Notify(sh.sigChan,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGUSR1,
	)

	return sh
}

// Handle blocks until a termination signal arrives or ctx ends
func (sh *SignalHandler) Handle(ctx context.Context) os.Signal {
	for {
		select {
		case sig := <-sh.sigChan:
			if sig == syscall.SIGUSR1 {
				sh.logger.Info("msg", "Status signal received", "signal", sig)
				if sh.onStatus != nil {
					sh.onStatus()
				}
				continue
			}
			return sig
		case <-ctx.Done():
			return nil
		}
	}
}

func (sh *SignalHandler) Stop() {
	signal.Stop(sh.sigChan)
}

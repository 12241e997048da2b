// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker listens for the OS signals that should end the process.
// By default it listens for os.Interrupt, SIGINT, SIGTERM and SIGQUIT.
//
// Watch cancels a context once the same signal has been received twice, so a single
// Ctrl-C lets the current scheduler submission finish while a second one aborts the run.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/splitrun/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

// New returns a channel that receives sigs, or the termination signals when sigs is empty.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Watch reads sigCh until it is closed, or until a signal is received for the second
// time. In that case it stops signal delivery, closes sigCh and calls cancel.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Logger(ctx).Warn("watchdog",
				"detail", "received second signal of type, aborting", "signal", sig.String())
			signal.Stop(sigCh)
			close(sigCh)
			cancel()

			return
		}

		ctxlog.Logger(ctx).Warn("watchdog",
			"detail", "received signal, send it again to abort", "signal", sig.String())

		seen[sig] = struct{}{}
	}
}

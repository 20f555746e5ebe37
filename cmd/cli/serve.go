// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"interactive-choice/internal/app"
	"interactive-choice/internal/config"
	"interactive-choice/internal/web"
)

// runWebHost serves the question page until it is answered or closed. An
// interrupt counts as closing the window.
func runWebHost(ctx context.Context, a *app.App, wc config.WebConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := web.Options{
		Port:        wc.Port,
		IdleTimeout: wc.IdleTimeout,
	}
	if wc.OpenBrowser {
		opts.Opener = web.OpenBrowser
	}

	return web.NewHost(a, opts).Run(ctx)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"interactive-choice/internal/api"
	"interactive-choice/internal/app"
	"interactive-choice/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	shutdownTimeout   = 5 * time.Second
	defaultLeaveGrace = 3 * time.Second
)

// Options configures the browser host.
type Options struct {
	// Port to listen on; 0 picks a free one.
	Port int

	// IdleTimeout is how long after the last page request the host assumes
	// the tab is gone. Zero disables the watchdog.
	IdleTimeout time.Duration

	// LeaveGrace is how long after the page reports it is unloading the host
	// waits for a reload before treating the tab as closed. Zero means 3s.
	LeaveGrace time.Duration

	// Opener is called with the page URL once the server is listening.
	// Nil leaves opening the page to the user.
	Opener func(url string) error
}

// Host serves the page and implements app.Window for it.
type Host struct {
	app    *app.App
	opts   Options
	token  string
	router *mux.Router

	done      chan struct{}
	closeOnce sync.Once

	connected atomic.Bool
	lastSeen  atomic.Int64
	leftAt    atomic.Int64
	leaving   chan struct{}
}

var _ app.Window = (*Host)(nil)

// NewHost builds the router and attaches the host to a as its main window.
func NewHost(a *app.App, opts Options) *Host {
	h := &Host{
		app:     a,
		opts:    opts,
		token:   uuid.NewString(),
		done:    make(chan struct{}),
		leaving: make(chan struct{}, 1),
	}
	if h.opts.LeaveGrace <= 0 {
		h.opts.LeaveGrace = defaultLeaveGrace
	}

	router := mux.NewRouter()
	api.RegisterShimRoutes(router, a, h, h.token)
	// Must be registered after API routes to avoid conflicts
	router.PathPrefix("/").Handler(http.FileServer(GetFileSystem()))
	h.router = router

	a.AttachWindow(h)
	return h
}

// Token is the session token the page must present on API calls.
func (h *Host) Token() string {
	return h.token
}

// Handler returns the HTTP handler serving the page and the API.
func (h *Host) Handler() http.Handler {
	return h.router
}

// Close closes the window: Run stops serving and returns.
func (h *Host) Close() error {
	h.closeOnce.Do(func() { close(h.done) })
	return nil
}

// Touch records page activity for the idle watchdog.
func (h *Host) Touch() {
	h.lastSeen.Store(time.Now().UnixNano())
	h.connected.Store(true)
}

// Leave records that the page is unloading. Unless another page request
// arrives within LeaveGrace, Run treats the window as closed.
func (h *Host) Leave() {
	h.leftAt.Store(time.Now().UnixNano())
	select {
	case h.leaving <- struct{}{}:
	default:
	}
}

// returned reports whether the page made a request after it last left.
func (h *Host) returned() bool {
	return h.lastSeen.Load() > h.leftAt.Load()
}

func (h *Host) idleFor() time.Duration {
	return time.Since(time.Unix(0, h.lastSeen.Load()))
}

// Run serves the page until the window is closed. Cancelling ctx, the page
// unloading without coming back, or the page going silent for longer than
// IdleTimeout counts as the user closing the window.
func (h *Host) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", h.opts.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on loopback port %d: %w", h.opts.Port, err)
	}

	url := fmt.Sprintf("http://%s/?token=%s", ln.Addr().String(), h.token)
	srv := &http.Server{
		Handler:           h.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	logger.Info("web host listening", "addr", ln.Addr().String())
	if h.opts.Opener != nil {
		if err := h.opts.Opener(url); err != nil {
			logger.Warn("failed to open browser", "error", err)
			fmt.Fprintf(os.Stderr, "Open %s to answer the question.\n", url)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Open %s to answer the question.\n", url)
	}

	var tick <-chan time.Time
	if h.opts.IdleTimeout > 0 {
		interval := h.opts.IdleTimeout / 3
		if interval < 50*time.Millisecond {
			interval = 50 * time.Millisecond
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var grace <-chan time.Time
	var runErr error
wait:
	for {
		select {
		case <-h.done:
			logger.Debug("window closed")
			break wait
		case <-ctx.Done():
			logger.Info("interrupted, closing window")
			h.app.OnCloseRequested()
			break wait
		case err := <-serveErr:
			if !errors.Is(err, http.ErrServerClosed) {
				runErr = fmt.Errorf("web host stopped: %w", err)
			}
			h.app.OnCloseRequested()
			return runErr
		case <-h.leaving:
			grace = time.After(h.opts.LeaveGrace)
		case <-grace:
			grace = nil
			if !h.returned() {
				logger.Info("page unloaded, closing window")
				h.app.OnCloseRequested()
				break wait
			}
		case <-tick:
			if h.connected.Load() && h.idleFor() > h.opts.IdleTimeout {
				logger.Info("page stopped responding, closing window", "idle", h.idleFor())
				h.app.OnCloseRequested()
				break wait
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("web host shutdown", "error", err)
	}
	return runErr
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package app is the bridge between the process arguments, the front-end
// window and standard output. It owns the question input and the one-shot
// submission latch that guarantees a single result line per process.
package app

import (
	"io"
	"sync"

	"interactive-choice/internal/logger"
)

// FallbackResult is written when the window closes before anything was
// submitted.
const FallbackResult = `{"choice":null,"index":-1,"custom_input":null}`

// Window is the capability a host provides so the shim can close the main
// window after a submission.
type Window interface {
	Close() error
}

// Handler is the pair of host events routed through the submission latch.
type Handler interface {
	OnResultSubmitted(payload string)
	OnCloseRequested()
}

// App holds the state that lives for the whole process.
type App struct {
	input string
	latch Latch
	out   io.Writer

	mu     sync.Mutex
	window Window
}

var _ Handler = (*App)(nil)

// New captures the input string and the writer that receives the result
// line (os.Stdout in production).
func New(input string, out io.Writer) *App {
	return &App{input: input, out: out}
}

// AttachWindow registers the main window. Passing nil detaches it.
func (a *App) AttachWindow(w Window) {
	a.mu.Lock()
	a.window = w
	a.mu.Unlock()
}

// Input returns the raw input captured at startup.
func (a *App) Input() string {
	return a.input
}

// LogDebug records a developer-facing message coming from the front end.
func (a *App) LogDebug(msg string) {
	logger.Debug("frontend", "source", "js", "message", msg)
}

// Reported reports whether the result line has been written.
func (a *App) Reported() bool {
	return a.latch.IsSet()
}

// OnResultSubmitted writes payload as the result line if nothing has been
// reported yet, then asks the main window to close either way.
func (a *App) OnResultSubmitted(payload string) {
	if a.latch.TrySet() {
		a.emit(payload)
	} else {
		logger.Debug("dropping submission, result already reported")
	}
	a.closeWindow()
}

// OnCloseRequested writes FallbackResult if nothing has been reported yet.
// The host is responsible for letting the close proceed.
func (a *App) OnCloseRequested() {
	if a.latch.TrySet() {
		logger.Debug("window closed without a submission")
		a.emit(FallbackResult)
	}
}

func (a *App) emit(line string) {
	if _, err := io.WriteString(a.out, line+"\n"); err != nil {
		logger.Error("failed to write result", "error", err)
	}
}

func (a *App) closeWindow() {
	a.mu.Lock()
	w := a.window
	a.mu.Unlock()

	if w == nil {
		return
	}
	if err := w.Close(); err != nil {
		logger.Warn("failed to close window", "error", err)
	}
}

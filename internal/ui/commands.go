// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ui's commands.go file contains the Bubble Tea commands that talk
// to the application outside the UI loop.

package ui

import (
	"interactive-choice/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

// submitResultCmd hands payload to the application. It must run as a
// command: the application closes the window from inside the call, which
// quits the program, and that cannot happen from within Update.
func submitResultCmd(h app.Handler, payload string) tea.Cmd {
	return func() tea.Msg {
		h.OnResultSubmitted(payload)
		return resultSentMsg{}
	}
}

// closeWindowCmd reports the close to the application, then quits.
func closeWindowCmd(h app.Handler) tea.Cmd {
	return func() tea.Msg {
		h.OnCloseRequested()
		return tea.Quit()
	}
}

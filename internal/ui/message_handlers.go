// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"strings"

	"interactive-choice/internal/logger"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// --- Message Handlers ---
// These methods handle non-key messages.

func (m *model) handleWindowSize(msg tea.WindowSizeMsg) {
	widthChanged := msg.Width != m.width
	m.width = msg.Width
	m.height = msg.Height
	if widthChanged || !m.ready {
		m.renderBody()
	}
	m.ready = true
	m.layout()
}

func (m *model) handleResultSent() {
	m.sent = true
	logger.Debug("result handed to application")
}

// contentWidth is the usable width inside the main content box.
func (m *model) contentWidth() int {
	w := m.width - contentPadding
	if w > maxBodyWidth {
		w = maxBodyWidth
	}
	if w < minBodyWidth {
		w = minBodyWidth
	}
	return w
}

// renderBody renders the Markdown body for the current width. Rendering
// errors fall back to the raw text.
func (m *model) renderBody() {
	body := strings.TrimSpace(m.input.Body)
	if body == "" {
		m.renderedBody = ""
		m.viewport.SetContent("")
		return
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.bodyStyle),
		glamour.WithWordWrap(m.contentWidth()),
	)
	if err == nil {
		var out string
		out, err = r.Render(body)
		if err == nil {
			body = strings.Trim(out, "\n")
		}
	}
	if err != nil {
		logger.Warn("failed to render question body", "error", err)
	}

	m.renderedBody = body
	m.viewport.SetContent(body)
}

// layout sizes the body viewport and the custom field so the whole view
// fits the terminal.
func (m *model) layout() {
	w := m.contentWidth()
	m.customArea.SetWidth(w)
	m.viewport.Width = w

	if m.renderedBody == "" {
		m.viewport.Height = 0
		return
	}

	fixed := headerHeight + footerHeight + borderHeight + len(m.input.Choices) + 1
	if m.input.AllowCustom {
		fixed += 2
		if m.state == stateCustomInput {
			fixed += customHeight
		}
	}
	available := m.height - fixed
	if available < minBodyHeight {
		available = minBodyHeight
	}
	m.viewport.Height = min(available, lipgloss.Height(m.renderedBody))
}

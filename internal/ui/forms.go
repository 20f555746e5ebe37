// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// newCustomArea builds the free-text answer field.
func newCustomArea() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Type your answer..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(customHeight)
	return ta
}

// customAnswer returns the trimmed text of the custom field.
func (m *model) customAnswer() string {
	return strings.TrimSpace(m.customArea.Value())
}

// openCustomArea switches to the custom answer field and focuses it.
func (m *model) openCustomArea() tea.Cmd {
	m.state = stateCustomInput
	m.customHint = ""
	cmd := m.customArea.Focus()
	m.layout()
	return cmd
}

// closeCustomArea returns to the choice list, keeping what was typed.
func (m *model) closeCustomArea() {
	m.state = stateChoosing
	m.customHint = ""
	m.customArea.Blur()
	m.layout()
}

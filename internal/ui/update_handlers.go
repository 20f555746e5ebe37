// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"interactive-choice/internal/question"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// --- Update Handlers ---
// These methods handle key presses for specific UI states.

func (m *model) handleChoosingKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.input.Choices)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.Home):
		m.cursor = 0
	case key.Matches(msg, m.keymap.End):
		if n := len(m.input.Choices); n > 0 {
			m.cursor = n - 1
		}
	case key.Matches(msg, m.keymap.PgUp):
		m.viewport.ViewUp()
	case key.Matches(msg, m.keymap.PgDown):
		m.viewport.ViewDown()
	case key.Matches(msg, m.keymap.Enter):
		if m.cursor >= 0 && m.cursor < len(m.input.Choices) {
			return m.submit(question.ChoiceResult(m.input.Choices[m.cursor], m.cursor))
		}
	case key.Matches(msg, m.keymap.Custom):
		if m.input.AllowCustom {
			return m.openCustomArea()
		}
	case key.Matches(msg, m.keymap.Skip):
		return m.submit(question.SkipResult())
	case key.Matches(msg, m.keymap.Esc), key.Matches(msg, m.keymap.Quit):
		return m.requestClose()
	}
	return nil
}

func (m *model) handleCustomInputKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m.requestClose()
	case key.Matches(msg, m.keymap.Send):
		answer := m.customAnswer()
		if answer == "" {
			m.customHint = emptyCustomHint
			return nil
		}
		return m.submit(question.CustomResult(answer))
	case key.Matches(msg, m.keymap.Esc):
		if len(m.input.Choices) == 0 {
			return m.requestClose()
		}
		m.closeCustomArea()
		return nil
	}

	m.customHint = ""
	var cmd tea.Cmd
	m.customArea, cmd = m.customArea.Update(msg)
	return cmd
}

func (m *model) handleInputErrorKeys(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keymap.Esc) || key.Matches(msg, m.keymap.Quit) || key.Matches(msg, m.keymap.Enter) {
		return m.requestClose()
	}
	return nil
}

// requestClose treats the key press like the user closing the window.
func (m *model) requestClose() tea.Cmd {
	if m.submitting {
		return nil
	}
	m.submitting = true
	m.state = stateSubmitted
	return closeWindowCmd(m.handler)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ui implements the terminal front end of the chooser: it shows the
// question, lets the user pick a choice, type a custom answer or skip, and
// reports the outcome to the application.
package ui

import (
	"interactive-choice/internal/app"
	"interactive-choice/internal/logger"
	"interactive-choice/internal/question"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type model struct {
	handler app.Handler
	keymap  KeyMap

	input    question.Input
	inputErr error

	state      state
	cursor     int
	submitting bool // set on the first submission, never cleared
	sent       bool

	customArea textarea.Model
	customHint string

	bodyStyle    string
	renderedBody string
	viewport     viewport.Model

	width  int
	height int
	ready  bool
}

// InitialModel parses rawInput and builds the chooser model. Results go to
// h. bodyStyle names the glamour style used for the Markdown body.
func InitialModel(h app.Handler, rawInput string, bodyStyle string) tea.Model {
	return newModel(h, rawInput, bodyStyle)
}

func newModel(h app.Handler, rawInput string, bodyStyle string) *model {
	m := &model{
		handler:    h,
		keymap:     DefaultKeyMap,
		customArea: newCustomArea(),
		bodyStyle:  bodyStyle,
		viewport:   viewport.New(0, 0),
	}

	in, err := question.ParseInput(rawInput)
	if err != nil {
		logger.Error("failed to parse question input", "error", err)
		m.inputErr = err
		m.state = stateInputError
		return m
	}
	m.input = in

	if in.RecommendedIndex >= 0 && in.RecommendedIndex < len(in.Choices) {
		m.cursor = in.RecommendedIndex
	}
	if len(in.Choices) == 0 && in.AllowCustom {
		m.state = stateCustomInput
		m.customArea.Focus()
	}
	return m
}

func (m *model) Init() tea.Cmd {
	if m.state == stateCustomInput {
		return textarea.Blink
	}
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
		return m, nil

	case resultSentMsg:
		m.handleResultSent()
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateChoosing:
			return m, m.handleChoosingKeys(msg)
		case stateCustomInput:
			return m, m.handleCustomInputKeys(msg)
		case stateInputError:
			return m, m.handleInputErrorKeys(msg)
		case stateSubmitted:
			// Waiting for the application to close the window.
			return m, nil
		}
	}

	if m.state == stateCustomInput {
		var cmd tea.Cmd
		m.customArea, cmd = m.customArea.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) View() string {
	if !m.ready {
		return statusStyle.Render("Loading...")
	}

	var body, footer string
	switch m.state {
	case stateInputError:
		body, footer = m.renderInputErrorView()
	case stateSubmitted:
		body, footer = m.renderSubmittedView()
	default:
		body, footer = m.renderQuestionView()
	}

	return m.renderFrame(body, footer)
}

// submit hands r to the application once. Later calls are ignored.
func (m *model) submit(r question.Result) tea.Cmd {
	if m.submitting {
		return nil
	}
	m.submitting = true
	m.state = stateSubmitted
	m.customArea.Blur()
	return submitResultCmd(m.handler, r.Encode())
}

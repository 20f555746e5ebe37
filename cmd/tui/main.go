// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package tui runs the chooser as a terminal program.
package tui

import (
	"errors"
	"fmt"
	"os"

	"interactive-choice/internal/app"
	"interactive-choice/internal/logger"
	"interactive-choice/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// programWindow closes the chooser by quitting the Bubble Tea program.
type programWindow struct {
	p *tea.Program
}

func (w programWindow) Close() error {
	w.p.Quit()
	return nil
}

// RunTUI shows the question in the terminal until the user answers or closes
// it. The UI is drawn on stderr and keys are read from the terminal, so
// stdout carries nothing but the result line.
func RunTUI(a *app.App) error {
	// Colours follow the terminal the UI draws on, not stdout.
	r := lipgloss.NewRenderer(os.Stderr)
	lipgloss.SetColorProfile(r.ColorProfile())
	dark := r.HasDarkBackground()
	lipgloss.SetHasDarkBackground(dark)

	bodyStyle := styles.DarkStyle
	if !dark {
		bodyStyle = styles.LightStyle
	}

	m := ui.InitialModel(a, a.Input(), bodyStyle)
	p := tea.NewProgram(m,
		tea.WithOutput(os.Stderr),
		tea.WithInputTTY(),
		tea.WithAltScreen(),
	)
	a.AttachWindow(programWindow{p: p})
	defer a.AttachWindow(nil)

	_, err := p.Run()
	return finish(a, err)
}

// finish settles the result once the program has ended. A program that ran
// and was quit, interrupted or killed counts as the user closing the window;
// any other error means the UI never worked and no result is written.
func finish(a *app.App, err error) error {
	if err != nil && !errors.Is(err, tea.ErrInterrupted) && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	if !a.Reported() {
		logger.Info("terminal UI exited without an answer")
		a.OnCloseRequested()
	}
	return nil
}

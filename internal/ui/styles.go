// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle             = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	errorStyle             = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	cursorStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	selectedStyle          = lipgloss.NewStyle().Bold(true)
	recommendedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Italic(true)
	hintStyle              = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mainContentBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("238")). // Light grey border
				Padding(0, 1)

	// Footer / Status Bar Styles
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")) // Default light grey text

	footerKeyStyle = lipgloss.NewStyle().
			Inherit(footerStyle).
			Foreground(lipgloss.Color("39")) // Bright blue for key

	footerDescStyle = lipgloss.NewStyle().
			Inherit(footerStyle).
			Foreground(lipgloss.Color("250")) // Light grey for description

	footerSeparatorStyle = lipgloss.NewStyle().
				Inherit(footerStyle).
				Foreground(lipgloss.Color("240")) // Dim grey for separator "|"
)

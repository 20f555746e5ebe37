// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// --- View Helpers ---

// renderFrame lays out the title, the bordered content and the footer.
func (m *model) renderFrame(body, footer string) string {
	header := titleStyle.Render(m.input.DisplayTitle())
	content := mainContentBorderStyle.Width(m.contentWidth() + 2).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m *model) renderQuestionView() (string, string) {
	var b strings.Builder

	if m.renderedBody != "" {
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
	}

	if len(m.input.Choices) == 0 && !m.input.AllowCustom {
		b.WriteString(hintStyle.Render("No choices were provided."))
		b.WriteString("\n")
	}
	for i, choice := range m.input.Choices {
		cursor := "  "
		label := choice
		if i == m.cursor && m.state == stateChoosing {
			cursor = cursorStyle.Render("> ")
			label = selectedStyle.Render(choice)
		}
		line := cursor + label
		if m.input.IsRecommended(i) {
			line += " " + recommendedStyle.Render("(Recommended)")
		}
		b.WriteString(line + "\n")
	}

	if m.input.AllowCustom {
		b.WriteString("\n")
		if m.state == stateCustomInput {
			b.WriteString(m.customArea.View())
			if m.customHint != "" {
				b.WriteString("\n" + errorStyle.Render(m.customHint))
			}
		} else {
			b.WriteString(hintStyle.Render(fmt.Sprintf("Press %s to type your own answer.", m.keymap.Custom.Help().Key)))
		}
	}

	var footer string
	if m.state == stateCustomInput {
		bindings := []key.Binding{m.keymap.Send}
		if len(m.input.Choices) > 0 {
			bindings = append(bindings, m.keymap.Esc)
		}
		footer = renderFooter(bindings...) + renderFooterItem("ctrl+c", "close", true)
	} else {
		bindings := []key.Binding{m.keymap.Up, m.keymap.Down}
		if len(m.input.Choices) > 0 {
			bindings = append(bindings, m.keymap.Enter)
		}
		if m.input.AllowCustom {
			bindings = append(bindings, m.keymap.Custom)
		}
		bindings = append(bindings, m.keymap.Skip, m.keymap.Quit)
		footer = renderFooter(bindings...)
	}

	return strings.TrimRight(b.String(), "\n"), "\n" + footer
}

func (m *model) renderSubmittedView() (string, string) {
	if !m.sent {
		return statusStyle.Render(sendingMessage), ""
	}
	return successStyle.Render(sentMessage), ""
}

func (m *model) renderInputErrorView() (string, string) {
	var b strings.Builder
	b.WriteString(errorStyle.Render(inputErrorMessage))
	if m.inputErr != nil {
		b.WriteString("\n\n" + hintStyle.Render(m.inputErr.Error()))
	}
	footer := "\n" + renderFooter(m.keymap.Quit)
	return b.String(), footer
}

// renderFooter renders "key: desc" pairs separated by "|".
func renderFooter(bindings ...key.Binding) string {
	var b strings.Builder
	for i, binding := range bindings {
		b.WriteString(renderFooterItem(binding.Help().Key, binding.Help().Desc, i > 0))
	}
	return b.String()
}

func renderFooterItem(k, desc string, separated bool) string {
	item := footerKeyStyle.Render(k) + footerDescStyle.Render(": "+desc)
	if separated {
		return footerSeparatorStyle.Render(" | ") + item
	}
	return item
}

// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// This file defines the keyboard bindings for the chooser.
// It maps keys to actions and provides descriptions for the footer.

package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the chooser.
type KeyMap struct {
	// Navigation keys
	Up     key.Binding // Move cursor up
	Down   key.Binding // Move cursor down
	Home   key.Binding // Jump to the first choice
	End    key.Binding // Jump to the last choice
	PgUp   key.Binding // Scroll the body up
	PgDown key.Binding // Scroll the body down

	// Answering
	Enter  key.Binding // Submit the highlighted choice
	Custom key.Binding // Open the custom answer field
	Send   key.Binding // Send the custom answer
	Skip   key.Binding // Skip the question

	// Closing
	Esc  key.Binding // Leave the custom field, or close the window
	Quit key.Binding // Close the window without answering
}

// DefaultKeyMap provides the default keybindings.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home", "first"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end", "last"),
	),
	PgUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "scroll up"),
	),
	PgDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "scroll down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Custom: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "custom answer"),
	),
	Send: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "send"),
	),
	Skip: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "skip"),
	),
	Esc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "close"),
	),
}

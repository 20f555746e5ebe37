// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package ui

// state represents the different views or modes of the TUI.
type state int

const (
	stateChoosing state = iota
	stateCustomInput
	stateSubmitted
	stateInputError
)

const (
	headerHeight   = 1 // Title line.
	footerHeight   = 2 // Blank line plus the key help.
	borderHeight   = 2 // Top and bottom border of the main content box.
	customHeight   = 3 // Rows of the custom answer textarea.
	minBodyHeight  = 3 // Never shrink the Markdown body below this.
	maxBodyWidth   = 100
	minBodyWidth   = 20
	contentPadding = 4 // Border plus one column of padding on each side.
)

const (
	inputErrorMessage = "Error loading question details."
	emptyCustomHint   = "Type an answer before sending."
	sendingMessage    = "Sending response..."
	sentMessage       = "Response sent."
)

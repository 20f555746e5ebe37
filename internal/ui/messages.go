// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package ui's messages.go file defines the message types used in the Bubble Tea
// Model-View-Update architecture.

package ui

// resultSentMsg is sent once the submission has been handed to the
// application and the result line has been written.
type resultSentMsg struct{}

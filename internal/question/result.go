// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package question

import (
	"encoding/json"
	"strings"
)

// Result is the document a front end submits and the chooser prints.
// Field order matters: the cancelled result must encode exactly as the
// fallback line.
type Result struct {
	Choice      *string `json:"choice"`
	Index       int     `json:"index"`
	CustomInput *string `json:"custom_input"`
	Skipped     bool    `json:"skipped,omitempty"`
}

// ChoiceResult selects one of the predefined choices.
func ChoiceResult(choice string, index int) Result {
	return Result{Choice: &choice, Index: index}
}

// CustomResult carries a free-text answer.
func CustomResult(text string) Result {
	return Result{Index: -1, CustomInput: &text}
}

// SkipResult records that the user explicitly skipped the question.
func SkipResult() Result {
	return Result{Index: -1, Skipped: true}
}

// CancelResult is what a closed window reports.
func CancelResult() Result {
	return Result{Index: -1}
}

// Encode renders r as compact JSON.
func (r Result) Encode() string {
	// Marshalling a struct of strings and ints cannot fail.
	data, _ := json.Marshal(r)
	return string(data)
}

// ParseToolResult extracts the answer from the chooser's stdout. Lines that
// start with DEBUG are ignored; empty output means the user cancelled.
// JSON null is malformed. Any other JSON value that is not an object, or an
// object without a non-empty string custom_input or choice, is a cancel.
func ParseToolResult(stdout string) (string, error) {
	var kept []string
	for _, line := range strings.Split(stdout, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "DEBUG") {
			continue
		}
		kept = append(kept, line)
	}
	cleaned := strings.TrimSpace(strings.Join(kept, "\n"))
	if cleaned == "" {
		return CancelledMessage, nil
	}

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil || doc == nil {
		return "", &MalformedResultError{Stdout: stdout}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return CancelledMessage, nil
	}
	for _, key := range []string{"custom_input", "choice"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s, nil
		}
	}
	return CancelledMessage, nil
}

// MalformedResultError carries the raw stdout that could not be decoded.
// It matches ErrMalformedResult with errors.Is.
type MalformedResultError struct {
	Stdout string
}

func (e *MalformedResultError) Error() string {
	return "Error parsing result: " + e.Stdout
}

func (e *MalformedResultError) Is(target error) bool {
	return target == ErrMalformedResult
}

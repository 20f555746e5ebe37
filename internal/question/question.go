// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package question defines the JSON documents exchanged between the MCP
// server, the chooser process and its front ends: the question passed via
// --input and the result printed on stdout.
package question

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultTitle is shown when a request does not carry a title.
const DefaultTitle = "Action Required"

// CancelledMessage is the tool output when the user closed the window or
// skipped the question.
const CancelledMessage = "user cancelled the selection"

var (
	// ErrUnknownRecommendation is returned when the recommended choice is
	// not one of the available choices.
	ErrUnknownRecommendation = errors.New("recommended choice does not match any available choices")

	// ErrMalformedResult is returned when the chooser's stdout is not a
	// result document.
	ErrMalformedResult = errors.New("malformed result")
)

// Input is the question handed to the chooser via --input.
type Input struct {
	Title            string   `json:"title,omitempty"`
	Body             string   `json:"body,omitempty"`
	Choices          []string `json:"choices,omitempty"`
	RecommendedIndex int      `json:"recommendedIndex"`
	AllowCustom      bool     `json:"allowCustom,omitempty"`
}

// ParseInput decodes the raw --input value. An absent recommendedIndex
// decodes as -1, an empty string as the empty question.
func ParseInput(raw string) (Input, error) {
	in := Input{RecommendedIndex: -1}
	if strings.TrimSpace(raw) == "" {
		return in, nil
	}
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return Input{RecommendedIndex: -1}, fmt.Errorf("failed to parse question input: %w", err)
	}
	return in, nil
}

// Encode renders the input as the compact JSON passed on the command line.
func (in Input) Encode() (string, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("failed to encode question input: %w", err)
	}
	return string(data), nil
}

// IsRecommended reports whether choice i is the recommended one.
func (in Input) IsRecommended(i int) bool {
	return in.RecommendedIndex >= 0 && in.RecommendedIndex == i
}

// DisplayTitle returns the title, or DefaultTitle when empty.
func (in Input) DisplayTitle() string {
	if strings.TrimSpace(in.Title) == "" {
		return DefaultTitle
	}
	return in.Title
}

// ResolveRecommendedIndex returns the index of recommended within choices,
// comparing trimmed strings. A nil recommendation resolves to -1.
func ResolveRecommendedIndex(choices []string, recommended *string) (int, error) {
	if recommended == nil {
		return -1, nil
	}

	target := strings.TrimSpace(*recommended)
	for i, c := range choices {
		if strings.TrimSpace(c) == target {
			return i, nil
		}
	}
	return -1, &UnknownRecommendationError{Recommended: *recommended, Choices: choices}
}

// UnknownRecommendationError reports a recommended choice that is not in
// the choice list. It matches ErrUnknownRecommendation with errors.Is.
type UnknownRecommendationError struct {
	Recommended string
	Choices     []string
}

func (e *UnknownRecommendationError) Error() string {
	return fmt.Sprintf("recommended choice %q does not match any available choices. Available: %s",
		e.Recommended, strings.Join(e.Choices, ", "))
}

func (e *UnknownRecommendationError) Is(target error) bool {
	return target == ErrUnknownRecommendation
}

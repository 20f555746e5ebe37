// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package question

import (
	"errors"
	"time"
)

// AskRequest is the argument object of the ask_user tool.
type AskRequest struct {
	Title       string   `json:"title,omitempty"`
	Body        string   `json:"body,omitempty"`
	Choices     []string `json:"choices"`
	Recommended *string  `json:"recommended,omitempty"`
	AllowCustom bool     `json:"allowCustom,omitempty"`
	TimeoutSec  float64  `json:"timeoutSec,omitempty"`
}

// BuildInput converts the request into the chooser input, applying the
// default title and resolving the recommended choice.
func (r AskRequest) BuildInput() (Input, error) {
	if len(r.Choices) == 0 && !r.AllowCustom {
		return Input{}, errors.New("at least one choice is required")
	}

	idx, err := ResolveRecommendedIndex(r.Choices, r.Recommended)
	if err != nil {
		return Input{}, err
	}

	title := r.Title
	if title == "" {
		title = DefaultTitle
	}

	return Input{
		Title:            title,
		Body:             r.Body,
		Choices:          r.Choices,
		RecommendedIndex: idx,
		AllowCustom:      r.AllowCustom,
	}, nil
}

// MaxTimeout bounds a requested timeout.
const MaxTimeout = 24 * time.Hour

// Timeout returns the requested timeout capped at MaxTimeout, or def when
// none was given.
func (r AskRequest) Timeout(def time.Duration) time.Duration {
	if r.TimeoutSec >= MaxTimeout.Seconds() {
		return MaxTimeout
	}
	if r.TimeoutSec > 0 {
		return time.Duration(r.TimeoutSec * float64(time.Second))
	}
	return def
}

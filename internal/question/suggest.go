// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package question

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// ClosestChoice returns the choice nearest to s by edit distance, ignoring
// case and surrounding space. ok is false when nothing is close enough to
// pass for a typo.
func ClosestChoice(choices []string, s string) (closest string, ok bool) {
	target := strings.ToLower(strings.TrimSpace(s))
	if target == "" {
		return "", false
	}

	bestDist := -1
	for _, c := range choices {
		d := levenshtein.ComputeDistance(strings.ToLower(strings.TrimSpace(c)), target)
		if bestDist < 0 || d < bestDist {
			closest, bestDist = c, d
		}
	}
	if bestDist < 0 {
		return "", false
	}

	limit := max(2, len([]rune(target))/3)
	return closest, bestDist <= limit
}

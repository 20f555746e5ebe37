// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package app

import "sync/atomic"

// Latch is a one-way flag. It moves from unset to set exactly once and
// never resets. The zero value is unset and ready to use.
type Latch struct {
	set atomic.Bool
}

// TrySet claims the latch. It returns true only for the call that moved it
// from unset to set; every later or concurrent loser gets false.
func (l *Latch) TrySet() bool {
	return l.set.CompareAndSwap(false, true)
}

// IsSet reports whether the latch has been claimed.
func (l *Latch) IsSet() bool {
	return l.set.Load()
}

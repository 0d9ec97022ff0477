// Package debounce coalesces event bursts into at most one action per window.
package debounce

import (
	"sync/atomic"
	"time"
)

// DefaultWindow is the reload cooldown applied between accepted triggers.
const DefaultWindow = 500 * time.Millisecond

// Gate is a shared open/closed flag with test-and-set close semantics.
// Closing schedules a reopen after the cooldown window, so for any burst of
// concurrent TryClose calls exactly one caller wins per window.
type Gate struct {
	closed atomic.Bool
	window time.Duration
}

// NewGate returns an open gate with the given cooldown window. A zero or
// negative window falls back to DefaultWindow.
func NewGate(window time.Duration) *Gate {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Gate{window: window}
}

// TryClose atomically transitions the gate open->closed and reports whether
// this call performed the transition. The winning caller schedules the
// reopen timer; the timer fires independently of any further activity.
func (g *Gate) TryClose() bool {
	if !g.closed.CompareAndSwap(false, true) {
		return false
	}
	time.AfterFunc(g.window, g.Reopen)
	return true
}

// Reopen returns the gate to the open state.
func (g *Gate) Reopen() {
	g.closed.Store(false)
}

// Closed reports the current gate state.
func (g *Gate) Closed() bool {
	return g.closed.Load()
}

// Window returns the configured cooldown.
func (g *Gate) Window() time.Duration {
	return g.window
}

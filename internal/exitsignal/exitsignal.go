// Package exitsignal broadcasts process-wide shutdown to independent waiters.
package exitsignal

import "sync"

// Signal is an idempotent, multi-waiter shutdown broadcast. The zero value is
// not usable; construct with New so instances can be injected per test.
type Signal struct {
	once sync.Once
	done chan struct{}
}

// New returns an unsignaled Signal.
func New() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Signal marks shutdown. Only the first call has effect; repeated calls
// (e.g. a second Ctrl-C) are safe no-ops.
func (s *Signal) Signal() {
	s.once.Do(func() { close(s.done) })
}

// Wait returns a channel that is closed once Signal has been called. Every
// waiter resumes, and late waiters resume immediately.
func (s *Signal) Wait() <-chan struct{} {
	return s.done
}

// Signaled reports whether shutdown has been requested.
func (s *Signal) Signaled() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Package ratelimit implements the per-identity fixed-window limiter that
// throttles chat messages. All sessions of one identity share a budget.
package ratelimit

import (
	"sync"
	"time"
)

const (
	// DefaultWindow is the length of one admission window.
	DefaultWindow = time.Second
	// DefaultMax is the number of admissions allowed per window.
	DefaultMax = 5
)

type window struct {
	count int
	end   time.Time
}

// Limiter admits at most max calls per identity within each fixed window.
// Bursts of up to twice the rate are possible across a window boundary.
// Windows are never evicted, so memory grows with the number of distinct
// identities seen.
type Limiter struct {
	mu      sync.Mutex
	max     int
	length  time.Duration
	windows map[string]*window
}

// New returns a Limiter. Non-positive arguments fall back to the defaults.
func New(max int, length time.Duration) *Limiter {
	if max <= 0 {
		max = DefaultMax
	}
	if length <= 0 {
		length = DefaultWindow
	}
	return &Limiter{
		max:     max,
		length:  length,
		windows: make(map[string]*window),
	}
}

// Allow reports whether identity may act at now. A rejected call leaves the
// window untouched.
func (l *Limiter) Allow(identity string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[identity]
	if !ok || now.After(w.end) {
		l.windows[identity] = &window{count: 1, end: now.Add(l.length)}
		return true
	}

	if w.count >= l.max {
		return false
	}

	w.count++
	return true
}

// Len returns the number of identities with a window.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Max returns the per-window admission limit.
func (l *Limiter) Max() int {
	return l.max
}

// Window returns the window length.
func (l *Limiter) Window() time.Duration {
	return l.length
}

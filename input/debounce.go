// Package input turns raw mechanical signals into clean events: debounced
// levels, decoded rotary digits, and complete dialed numbers. Everything
// here is time-driven and non-blocking; callers pass the current time and
// nothing ever sleeps.
package input

import (
	"sync"
	"time"
)

// Line is one logical pin, sampled once per poll iteration.
// True is the electrically high level.
type Line interface {
	Level() bool
}

// Debouncer filters a raw mechanical signal into stable level changes.
// A new level is trusted only after it has held continuously for the
// configured window.
type Debouncer struct {
	window     time.Duration
	raw        bool
	stable     bool
	lastChange time.Time
}

func NewDebouncer(window time.Duration, initial bool) *Debouncer {
	return &Debouncer{window: window, raw: initial, stable: initial}
}

// Sample feeds one raw reading. It returns the stable level and whether
// this call produced a stable transition. Flicker shorter than the window
// yields no transition; a held change yields exactly one.
func (d *Debouncer) Sample(level bool, now time.Time) (bool, bool) {
	if level != d.raw {
		d.raw = level
		d.lastChange = now
	}
	if d.raw != d.stable && now.Sub(d.lastChange) >= d.window {
		d.stable = d.raw
		return d.stable, true
	}
	return d.stable, false
}

// Stable returns the last trusted level.
func (d *Debouncer) Stable() bool {
	return d.stable
}

// SimLine is a settable Line for simulated handsets and tests.
// Safe for concurrent use.
type SimLine struct {
	mu    sync.Mutex
	level bool
}

func NewSimLine(level bool) *SimLine {
	return &SimLine{level: level}
}

func (l *SimLine) Set(level bool) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *SimLine) Level() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Package input turns key and touch notifications into a polled per-frame
// snapshot of logical controls.
package input

import "sync"

// Control is one logical game control.
type Control int

const (
	Forward Control = iota
	Back
	Left
	Right
	Fire
	Confirm
)

// Controls is the set of controls held during one frame.
type Controls struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
	Fire    bool
	Confirm bool
}

// Merge combines two snapshots; a control is held if either holds it.
func (c Controls) Merge(o Controls) Controls {
	return Controls{
		Forward: c.Forward || o.Forward,
		Back:    c.Back || o.Back,
		Left:    c.Left || o.Left,
		Right:   c.Right || o.Right,
		Fire:    c.Fire || o.Fire,
		Confirm: c.Confirm || o.Confirm,
	}
}

// Active reports whether any movement or fire control is held.
// Confirm does not count.
func (c Controls) Active() bool {
	return c.Forward || c.Back || c.Left || c.Right || c.Fire
}

// With returns a copy of c with ctrl set to held.
func (c Controls) With(ctrl Control, held bool) Controls {
	switch ctrl {
	case Forward:
		c.Forward = held
	case Back:
		c.Back = held
	case Left:
		c.Left = held
	case Right:
		c.Right = held
	case Fire:
		c.Fire = held
	case Confirm:
		c.Confirm = held
	}
	return c
}

// Latch holds the controls reported by one input device.
// Notification handlers write it from any goroutine; the frame loop reads it.
type Latch struct {
	mu   sync.Mutex
	held Controls
}

// Press marks ctrl as held.
func (l *Latch) Press(ctrl Control) {
	l.mu.Lock()
	l.held = l.held.With(ctrl, true)
	l.mu.Unlock()
}

// Release marks ctrl as released.
func (l *Latch) Release(ctrl Control) {
	l.mu.Lock()
	l.held = l.held.With(ctrl, false)
	l.mu.Unlock()
}

// Set replaces the whole held set.
func (l *Latch) Set(c Controls) {
	l.mu.Lock()
	l.held = c
	l.mu.Unlock()
}

// Controls returns the currently held set.
func (l *Latch) Controls() Controls {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// State merges the keyboard and touch devices. Snapshot and Suppress belong
// to the frame loop.
type State struct {
	Keys  Latch
	Touch Latch

	suppressed bool
}

// Suppress reports no controls until every control has been released once,
// so input held across a restart does not act on the next session.
func (s *State) Suppress() {
	s.suppressed = true
}

// Snapshot returns the merged controls for this frame.
func (s *State) Snapshot() Controls {
	c := s.Keys.Controls().Merge(s.Touch.Controls())
	if s.suppressed {
		if c != (Controls{}) {
			return Controls{}
		}
		s.suppressed = false
	}
	return c
}

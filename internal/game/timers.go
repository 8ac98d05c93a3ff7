package game

import (
	"time"

	"github.com/google/uuid"
)

// TimerID identifies a scheduled action. The zero value is never issued.
type TimerID uint64

type timer struct {
	id      TimerID
	at      time.Time
	session uuid.UUID
	fn      func()
}

// Timers holds one-shot actions that run on the frame loop once their
// deadline passes.
//
// Each action is tagged with the session that scheduled it. When it comes
// due under a different session it is dropped without running, so a missed
// Cancel cannot leak an old session's action into a new one. Actions tagged
// with uuid.Nil run under any session.
type Timers struct {
	next    TimerID
	pending []timer
}

// Schedule registers fn to run at or after at.
func (t *Timers) Schedule(at time.Time, session uuid.UUID, fn func()) TimerID {
	t.next++
	t.pending = append(t.pending, timer{id: t.next, at: at, session: session, fn: fn})
	return t.next
}

// Cancel removes a pending action. Cancelling an unknown, fired or already
// cancelled ID is a no-op and returns false.
func (t *Timers) Cancel(id TimerID) bool {
	for i, tm := range t.pending {
		if tm.id == id {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Run fires every due action in deadline order and returns how many ran.
// Actions may schedule or cancel other actions while running.
func (t *Timers) Run(now time.Time, current uuid.UUID) int {
	ran := 0
	for {
		idx := -1
		for i, tm := range t.pending {
			if tm.at.After(now) {
				continue
			}
			if idx < 0 || tm.at.Before(t.pending[idx].at) {
				idx = i
			}
		}
		if idx < 0 {
			return ran
		}

		tm := t.pending[idx]
		t.pending = append(t.pending[:idx], t.pending[idx+1:]...)
		if tm.session != uuid.Nil && tm.session != current {
			continue
		}
		tm.fn()
		ran++
	}
}

// Pending returns the number of scheduled actions.
func (t *Timers) Pending() int {
	return len(t.pending)
}

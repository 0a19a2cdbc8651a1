package logic

import (
	"fmt"
	"time"
)

// Session tracks one counting run. It starts Idle, becomes Active on the
// first accepted event and is terminal once Ended. Mutating an Ended
// session is a programming error and panics.
type Session struct {
	State         SessionState
	Count         int
	Created       time.Time
	StartTime     time.Time // first accepted event
	LastEventTime time.Time
	EndTime       time.Time
	Reason        EndReason
}

// NewSession creates an Idle session.
func NewSession(now time.Time) *Session {
	return &Session{
		State:   StateIdle,
		Created: now,
	}
}

// Record counts one accepted event.
func (s *Session) Record(ev MotionEvent) {
	if s.State == StateEnded {
		panic(fmt.Sprintf("logic: event recorded on ended session (count=%d)", s.Count))
	}
	if s.State == StateIdle {
		s.State = StateActive
		s.StartTime = ev.Timestamp
	}
	s.Count++
	s.LastEventTime = ev.Timestamp
}

// End moves the session to its terminal state.
func (s *Session) End(now time.Time, reason EndReason) {
	if s.State == StateEnded {
		panic(fmt.Sprintf("logic: session ended twice (first reason %q)", s.Reason))
	}
	s.State = StateEnded
	s.EndTime = now
	s.Reason = reason
}

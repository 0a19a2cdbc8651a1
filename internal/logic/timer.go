package logic

import "time"

// SessionTimer signals the end of a session once no event has been
// accepted for longer than the idle timeout.
type SessionTimer struct {
	idleTimeout time.Duration
	lastEvent   time.Time
	expired     bool
}

// NewSessionTimer starts the grace period at now, before any event.
func NewSessionTimer(idleTimeout time.Duration, now time.Time) *SessionTimer {
	return &SessionTimer{
		idleTimeout: idleTimeout,
		lastEvent:   now,
	}
}

// Tick advances the timer. Once Expire has been returned the timer is
// terminal and keeps returning Expire; events are ignored from then on.
func (t *SessionTimer) Tick(now time.Time, hadEvent bool) TimerResult {
	if t.expired {
		return Expire
	}
	if hadEvent {
		t.lastEvent = now
		return Continue
	}
	if now.Sub(t.lastEvent) > t.idleTimeout {
		t.expired = true
		return Expire
	}
	return Continue
}

// LastEvent returns the time the idle clock was last reset.
func (t *SessionTimer) LastEvent() time.Time {
	return t.lastEvent
}

// Remaining returns how long until the timer expires, never negative.
func (t *SessionTimer) Remaining(now time.Time) time.Duration {
	if t.expired {
		return 0
	}
	r := t.idleTimeout - now.Sub(t.lastEvent)
	if r < 0 {
		return 0
	}
	return r
}

// Expired reports whether the timer has fired.
func (t *SessionTimer) Expired() bool {
	return t.expired
}

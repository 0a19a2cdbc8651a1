package logic

import (
	"testing"
	"time"
)

func TestSessionTimerIdleExpiry(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	timer := NewSessionTimer(5*time.Second, t0)

	for s := 1; s <= 5; s++ {
		if got := timer.Tick(t0.Add(time.Duration(s)*time.Second), false); got != Continue {
			t.Errorf("t=%d: got %s, want Continue", s, got)
		}
	}
	if got := timer.Tick(t0.Add(6*time.Second), false); got != Expire {
		t.Errorf("t=6: got %s, want Expire", got)
	}
	if !timer.Expired() {
		t.Error("expected Expired() after Expire")
	}
}

func TestSessionTimerEventResetsClock(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	timer := NewSessionTimer(5*time.Second, t0)

	if got := timer.Tick(t0.Add(4*time.Second), true); got != Continue {
		t.Errorf("event tick: got %s, want Continue", got)
	}
	if got := timer.Tick(t0.Add(9*time.Second), false); got != Continue {
		t.Errorf("t=9: got %s, want Continue (exactly at timeout)", got)
	}
	if got := timer.Tick(t0.Add(9*time.Second+time.Millisecond), false); got != Expire {
		t.Errorf("t=9.001: got %s, want Expire", got)
	}
}

func TestSessionTimerTerminal(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	timer := NewSessionTimer(time.Second, t0)
	timer.Tick(t0.Add(2*time.Second), false)

	if got := timer.Tick(t0.Add(3*time.Second), true); got != Expire {
		t.Errorf("after expiry: got %s, want Expire", got)
	}
	if !timer.LastEvent().Equal(t0) {
		t.Errorf("events after expiry must be ignored, last event %v", timer.LastEvent())
	}
}

func TestSessionTimerRemaining(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	timer := NewSessionTimer(30*time.Second, t0)

	if got := timer.Remaining(t0.Add(10 * time.Second)); got != 20*time.Second {
		t.Errorf("remaining: got %v, want 20s", got)
	}
	if got := timer.Remaining(t0.Add(40 * time.Second)); got != 0 {
		t.Errorf("remaining past timeout: got %v, want 0", got)
	}
}

// Package logic contains the pure counting engine: hysteresis edge detection,
// the session lifecycle and the motion buffer.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Level is the debounced level of a monitored channel.
type Level string

const (
	LevelLow  Level = "LOW"
	LevelHigh Level = "HIGH"
)

// SessionState is the lifecycle state of one counting run.
type SessionState string

const (
	StateIdle   SessionState = "IDLE"
	StateActive SessionState = "ACTIVE"
	StateEnded  SessionState = "ENDED"
)

// EndReason records why a session ended.
type EndReason string

const (
	ReasonIdle    EndReason = "idle"    // idle timeout elapsed
	ReasonLimit   EndReason = "limit"   // maximum event count reached
	ReasonStopped EndReason = "stopped" // external stop signal
)

// Sample is a single raw reading taken on an orchestrator tick.
type Sample struct {
	Time time.Time
	Raw  float64
}

// EdgeState is the hysteresis state of one channel.
type EdgeState struct {
	Level          Level
	LastTransition time.Time
}

// MotionEvent is recorded for every accepted Low->High transition.
type MotionEvent struct {
	Timestamp time.Time
	// Value is derived from the raw amplitude and the time since the
	// previous observation (|raw| * dt seconds).
	Value float64
}

// TimerResult is returned by SessionTimer.Tick.
type TimerResult int

const (
	Continue TimerResult = iota
	Expire
)

func (r TimerResult) String() string {
	if r == Expire {
		return "Expire"
	}
	return "Continue"
}

// Summary is handed to the external consumer when a session ends.
// Events is owned by the receiver.
type Summary struct {
	Count   int
	Events  []MotionEvent
	Created time.Time
	Started time.Time // first accepted event; zero if none
	Ended   time.Time
	Reason  EndReason
}

// Duration returns the time between session creation and its end.
func (s Summary) Duration() time.Duration {
	return s.Ended.Sub(s.Created)
}

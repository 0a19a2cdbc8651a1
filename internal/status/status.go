// Package status provides a thread-safe view of the running session for the
// HTTP status page. The tracker is fed by the engine as an observer.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/rep-counter/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs        int64
	IdleTimeoutMs int64
	ThresholdUp   float64
	ThresholdDown float64
	MaxEvents     int
	Digits        int
	Sensor        string
	Broker        string
	HTTPAddr      string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	State          logic.SessionState
	Count          int
	LastEvent      *logic.MotionEvent
	LastRaw        float64
	HasRaw         bool
	Samples        int
	InvalidSamples int
	SessionStart   time.Time
	Sessions       int
	LastSummary    *SummaryInfo
	StartTime      time.Time
	Now            time.Time
	MQTTConnected  bool
	Config         Config
}

// SummaryInfo describes the most recently ended session.
type SummaryInfo struct {
	Count    int
	Reason   logic.EndReason
	Ended    time.Time
	Duration time.Duration
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Started resets per-session state.
func (t *Tracker) Started(at time.Time) {
	t.mu.Lock()
	t.snap.State = logic.StateIdle
	t.snap.Count = 0
	t.snap.LastEvent = nil
	t.snap.Samples = 0
	t.snap.InvalidSamples = 0
	t.snap.SessionStart = at
	t.mu.Unlock()
}

// Sampled records the latest valid sample.
func (t *Tracker) Sampled(s logic.Sample) {
	t.mu.Lock()
	t.snap.LastRaw = s.Raw
	t.snap.HasRaw = true
	t.snap.Samples++
	t.mu.Unlock()
}

// Invalid counts a skipped tick.
func (t *Tracker) Invalid(at time.Time, err error) {
	t.mu.Lock()
	t.snap.InvalidSamples++
	t.mu.Unlock()
}

// Accepted records an event.
func (t *Tracker) Accepted(ev logic.MotionEvent, count int) {
	t.mu.Lock()
	t.snap.State = logic.StateActive
	t.snap.Count = count
	t.snap.LastEvent = &ev
	t.mu.Unlock()
}

// Ended records the session outcome.
func (t *Tracker) Ended(s logic.Summary) {
	t.mu.Lock()
	t.snap.State = logic.StateEnded
	t.snap.Count = s.Count
	t.snap.Sessions++
	t.snap.LastSummary = &SummaryInfo{
		Count:    s.Count,
		Reason:   s.Reason,
		Ended:    s.Ended,
		Duration: s.Duration(),
	}
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	if s.LastEvent != nil {
		ev := *s.LastEvent
		s.LastEvent = &ev
	}
	if s.LastSummary != nil {
		sum := *s.LastSummary
		s.LastSummary = &sum
	}
	s.Now = t.now()
	return s
}

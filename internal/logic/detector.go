package logic

import (
	"fmt"
	"math"
	"time"
)

// Detector converts raw samples into motion events using a hysteresis band.
// An event is emitted only on a Low->High transition; the High->Low
// transition re-arms detection.
type Detector struct {
	thresholdUp   float64
	thresholdDown float64
	state         EdgeState
	initialized   bool
	lastObserved  time.Time
}

// NewDetector creates a detector. thresholdDown must be strictly below
// thresholdUp, otherwise the band collapses into a single chattering cutoff.
func NewDetector(thresholdUp, thresholdDown float64) (*Detector, error) {
	if math.IsNaN(thresholdUp) || math.IsNaN(thresholdDown) {
		return nil, fmt.Errorf("thresholds must be numbers")
	}
	if thresholdDown >= thresholdUp {
		return nil, fmt.Errorf("threshold_down (%v) must be below threshold_up (%v)", thresholdDown, thresholdUp)
	}
	return &Detector{
		thresholdUp:   thresholdUp,
		thresholdDown: thresholdDown,
	}, nil
}

// Observe feeds one sample and returns the event it produced, if any.
// The first observation only initializes the level; a value inside the
// band counts as Low.
func (d *Detector) Observe(s Sample) (MotionEvent, bool) {
	if !d.initialized {
		d.initialized = true
		d.lastObserved = s.Time
		d.state = EdgeState{Level: LevelLow, LastTransition: s.Time}
		if s.Raw > d.thresholdUp {
			d.state.Level = LevelHigh
		}
		return MotionEvent{}, false
	}

	dt := s.Time.Sub(d.lastObserved)
	d.lastObserved = s.Time

	switch d.state.Level {
	case LevelLow:
		if s.Raw > d.thresholdUp {
			d.state = EdgeState{Level: LevelHigh, LastTransition: s.Time}
			return MotionEvent{
				Timestamp: s.Time,
				Value:     math.Abs(s.Raw) * dt.Seconds(),
			}, true
		}
	case LevelHigh:
		if s.Raw < d.thresholdDown {
			d.state = EdgeState{Level: LevelLow, LastTransition: s.Time}
		}
	}
	return MotionEvent{}, false
}

// State returns the current edge state.
func (d *Detector) State() EdgeState {
	return d.state
}

// Initialized reports whether the first sample has been observed.
func (d *Detector) Initialized() bool {
	return d.initialized
}

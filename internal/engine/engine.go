// Package engine runs one counting session: it polls the sensor on every
// tick, feeds the edge detector, maintains the session, timer and motion
// buffer, and repaints the display, until the session ends.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/rep-counter/internal/logic"
	"github.com/sweeney/rep-counter/internal/sensor"
)

// invalidLogEvery limits invalid-sample logging to the first and every Nth.
const invalidLogEvery = 50

// Renderer paints the current count. It must not block for longer than a
// display refresh.
type Renderer interface {
	Render(count int)
}

// Observer is notified of engine progress. Implementations must not block.
type Observer interface {
	Started(at time.Time)
	Sampled(s logic.Sample)
	Invalid(at time.Time, err error)
	Accepted(ev logic.MotionEvent, count int)
	Ended(s logic.Summary)
}

// Config holds the engine parameters.
type Config struct {
	ThresholdUp   float64
	ThresholdDown float64
	// IdleTimeout has no default; it must be set by the caller.
	IdleTimeout time.Duration
	// MaxEvents caps the motion buffer and ends the session when reached.
	// 0 means unbounded.
	MaxEvents int
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if _, err := logic.NewDetector(c.ThresholdUp, c.ThresholdDown); err != nil {
		return err
	}
	if c.IdleTimeout <= 0 {
		return errors.New("idle timeout must be positive")
	}
	if c.MaxEvents < 0 {
		return errors.New("max events must not be negative")
	}
	return nil
}

// Engine orchestrates one session at a time.
type Engine struct {
	cfg       Config
	source    sensor.Source
	display   Renderer
	observers []Observer
	now       func() time.Time
}

// New creates an engine. now may be nil to use time.Now.
func New(cfg Config, source sensor.Source, display Renderer, now func() time.Time, observers ...Observer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cfg:       cfg,
		source:    source,
		display:   display,
		observers: observers,
		now:       now,
	}, nil
}

// run holds the state of one session.
type run struct {
	detector *logic.Detector
	timer    *logic.SessionTimer
	session  *logic.Session
	buffer   *logic.MotionBuffer
	invalid  int
}

// Run executes a session, taking one step per tick, and returns its summary.
// The session ends on idle timeout, when MaxEvents is reached, or with
// ReasonStopped when ctx is done or tick is closed.
func (e *Engine) Run(ctx context.Context, tick <-chan time.Time) logic.Summary {
	start := e.now()
	detector, err := logic.NewDetector(e.cfg.ThresholdUp, e.cfg.ThresholdDown)
	if err != nil {
		// New validated the thresholds
		panic(fmt.Sprintf("engine: %v", err))
	}
	r := &run{
		detector: detector,
		timer:    logic.NewSessionTimer(e.cfg.IdleTimeout, start),
		session:  logic.NewSession(start),
		buffer:   logic.NewMotionBuffer(e.cfg.MaxEvents),
	}
	for _, o := range e.observers {
		o.Started(start)
	}
	e.display.Render(0)
	log.Printf("engine: session waiting for activity (idle timeout %v)", e.cfg.IdleTimeout)

	for {
		select {
		case <-ctx.Done():
			return e.finish(r, e.now(), logic.ReasonStopped)
		case _, ok := <-tick:
			if !ok {
				return e.finish(r, e.now(), logic.ReasonStopped)
			}
			now := e.now()
			if reason, done := e.step(r, now); done {
				return e.finish(r, now, reason)
			}
		}
	}
}

// step runs one tick: sample, detect, update session and timer, repaint.
func (e *Engine) step(r *run, now time.Time) (logic.EndReason, bool) {
	hadEvent := false

	raw, err := e.source.Read()
	if err != nil {
		r.invalid++
		if r.invalid == 1 || r.invalid%invalidLogEvery == 0 {
			kind := "sensor read failed"
			if errors.Is(err, sensor.ErrInvalidSample) {
				kind = "invalid sample"
			}
			log.Printf("engine: %s (%d so far): %v", kind, r.invalid, err)
		}
		for _, o := range e.observers {
			o.Invalid(now, err)
		}
	} else {
		s := logic.Sample{Time: now, Raw: raw}
		for _, o := range e.observers {
			o.Sampled(s)
		}
		if ev, ok := r.detector.Observe(s); ok {
			hadEvent = e.accept(r, ev)
		}
	}

	e.display.Render(r.session.Count)

	if e.cfg.MaxEvents > 0 && r.session.Count >= e.cfg.MaxEvents {
		return logic.ReasonLimit, true
	}
	if r.timer.Tick(now, hadEvent) == logic.Expire {
		return logic.ReasonIdle, true
	}
	return "", false
}

func (e *Engine) accept(r *run, ev logic.MotionEvent) bool {
	if !r.buffer.Append(ev) {
		return false
	}
	if r.session.State == logic.StateIdle {
		log.Printf("engine: session active")
	}
	r.session.Record(ev)
	log.Printf("engine: event %d (value=%.3f)", r.session.Count, ev.Value)
	for _, o := range e.observers {
		o.Accepted(ev, r.session.Count)
	}
	return true
}

func (e *Engine) finish(r *run, now time.Time, reason logic.EndReason) logic.Summary {
	r.session.End(now, reason)
	summary := logic.Summary{
		Count:   r.session.Count,
		Events:  r.buffer.Drain(),
		Created: r.session.Created,
		Started: r.session.StartTime,
		Ended:   r.session.EndTime,
		Reason:  reason,
	}
	log.Printf("engine: session ended (%s): count=%d duration=%v invalid=%d",
		reason, summary.Count, summary.Duration().Truncate(time.Millisecond), r.invalid)
	for _, o := range e.observers {
		o.Ended(summary)
	}
	return summary
}

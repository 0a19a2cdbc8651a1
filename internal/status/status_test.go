package status

import (
	"sync"
	"testing"
	"time"

	"github.com/sweeney/rep-counter/internal/logic"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestTracker() *Tracker {
	tr := NewTracker(t0, Config{TickMs: 200, IdleTimeoutMs: 30000, ThresholdUp: 11, ThresholdDown: 8, Broker: "tcp://broker:1883"})
	tr.now = func() time.Time { return t0.Add(90 * time.Second) }
	return tr
}

func TestTrackerSessionLifecycle(t *testing.T) {
	tr := newTestTracker()

	tr.Started(t0)
	snap := tr.Snapshot()
	if snap.State != logic.StateIdle {
		t.Errorf("state after Started: got %s, want IDLE", snap.State)
	}

	tr.Sampled(logic.Sample{Time: t0, Raw: 9.7})
	tr.Invalid(t0, nil)
	tr.Accepted(logic.MotionEvent{Timestamp: t0.Add(time.Second), Value: 2.2}, 1)

	snap = tr.Snapshot()
	if snap.State != logic.StateActive || snap.Count != 1 {
		t.Errorf("after event: state=%s count=%d", snap.State, snap.Count)
	}
	if snap.LastEvent == nil || snap.LastEvent.Value != 2.2 {
		t.Errorf("last event: got %+v", snap.LastEvent)
	}
	if snap.Samples != 1 || snap.InvalidSamples != 1 || snap.LastRaw != 9.7 {
		t.Errorf("samples=%d invalid=%d raw=%v", snap.Samples, snap.InvalidSamples, snap.LastRaw)
	}

	tr.Ended(logic.Summary{Count: 1, Created: t0, Ended: t0.Add(31 * time.Second), Reason: logic.ReasonIdle})
	snap = tr.Snapshot()
	if snap.State != logic.StateEnded || snap.Sessions != 1 {
		t.Errorf("after end: state=%s sessions=%d", snap.State, snap.Sessions)
	}
	if snap.LastSummary == nil || snap.LastSummary.Duration != 31*time.Second {
		t.Errorf("last summary: got %+v", snap.LastSummary)
	}

	// next session resets per-session fields but keeps history
	tr.Started(t0.Add(60 * time.Second))
	snap = tr.Snapshot()
	if snap.Count != 0 || snap.LastEvent != nil || snap.Sessions != 1 {
		t.Errorf("after restart: count=%d last=%v sessions=%d", snap.Count, snap.LastEvent, snap.Sessions)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := newTestTracker()
	tr.Accepted(logic.MotionEvent{Value: 1}, 1)
	snap := tr.Snapshot()
	snap.LastEvent.Value = 99
	if tr.Snapshot().LastEvent.Value != 1 {
		t.Error("mutating a snapshot changed the tracker")
	}
}

func TestTrackerConcurrentAccess(t *testing.T) {
	tr := newTestTracker()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Accepted(logic.MotionEvent{Value: float64(j)}, n*100+j)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = tr.Snapshot()
			}
		}()
	}
	wg.Wait()
}

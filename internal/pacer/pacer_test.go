package pacer

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

func TestNextOnSchedule(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	got := Next(t0, t0.Add(50*time.Millisecond), 200*time.Millisecond)
	if want := t0.Add(200 * time.Millisecond); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNextSkipsMissedSlots(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	period := 200 * time.Millisecond

	tests := []struct {
		now  time.Duration
		want time.Duration
	}{
		{now: 450 * time.Millisecond, want: 600 * time.Millisecond},
		{now: 400 * time.Millisecond, want: 600 * time.Millisecond}, // exactly on a slot
		{now: 199 * time.Millisecond, want: 200 * time.Millisecond},
	}
	for _, tt := range tests {
		got := Next(t0, t0.Add(tt.now), period)
		if !got.Equal(t0.Add(tt.want)) {
			t.Errorf("now=%v: got +%v, want +%v", tt.now, got.Sub(t0), tt.want)
		}
	}
}

func TestNextDoesNotDrift(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	period := 200 * time.Millisecond
	deadline := t0
	for i := 0; i < 1000; i++ {
		// consumer always wakes 3ms late
		deadline = Next(deadline, deadline.Add(3*time.Millisecond), period)
	}
	if want := t0.Add(1000 * period); !deadline.Equal(want) {
		t.Errorf("after 1000 ticks: got %v, want %v", deadline, want)
	}
}

func TestPacerTicksWithMockClock(t *testing.T) {
	mock := clock.NewMock()
	p := New(mock, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	got := 0
	for i := 0; i < 200 && got < 3; i++ {
		mock.Add(time.Second)
		select {
		case <-p.C():
			got++
		case <-time.After(10 * time.Millisecond):
		}
	}
	if got < 3 {
		t.Errorf("expected at least 3 ticks, got %d", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, ok := <-p.C(); ok {
		// a buffered tick may remain; the channel must close after it
		if _, ok := <-p.C(); ok {
			t.Error("tick channel not closed after Run returned")
		}
	}
}

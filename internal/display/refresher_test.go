package display

import (
	"context"
	"testing"
	"time"
)

func TestRefresherPaintsPublishedCount(t *testing.T) {
	d, rec, names, _ := newTestDriver(2, Config{})
	r := NewRefresher(d)
	r.Render(37)
	if r.Count() != 37 {
		t.Fatalf("count: got %d, want 37", r.Count())
	}

	tick := make(chan time.Time, 3)
	tick <- time.Time{}
	tick <- time.Time{}
	tick <- time.Time{}
	close(tick)

	r.Run(context.Background(), tick)

	if r.Frames() != 3 {
		t.Errorf("frames: got %d, want 3", r.Frames())
	}
	h := replay(rec.Writes(), names)
	// 3 frames * 2 digits * (clear + digit) latches, then Off's clear
	if len(h.shown) != 13 {
		t.Fatalf("expected 13 latches, got %d", len(h.shown))
	}
	if h.shown[1].value != Segments[3] || h.shown[3].value != Segments[7] {
		t.Errorf("frame bytes: got %#x %#x", h.shown[1].value, h.shown[3].value)
	}
	for _, n := range names {
		if h.enabled[n] {
			t.Errorf("%s still enabled after Run returned", n)
		}
	}
}

func TestRefresherStopsOnCancel(t *testing.T) {
	d, _, _, _ := newTestDriver(4, Config{})
	r := NewRefresher(d)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, make(chan time.Time))
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

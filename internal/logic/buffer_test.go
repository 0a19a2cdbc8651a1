package logic

import (
	"testing"
	"time"
)

func TestMotionBufferOrder(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewMotionBuffer(0)
	for i := 0; i < 100; i++ {
		if !b.Append(MotionEvent{Timestamp: t0.Add(time.Duration(i) * time.Second), Value: float64(i)}) {
			t.Fatalf("append %d rejected by unbounded buffer", i)
		}
	}

	got := b.Drain()
	if len(got) != 100 {
		t.Fatalf("expected 100 events, got %d", len(got))
	}
	for i, ev := range got {
		if ev.Value != float64(i) {
			t.Errorf("event %d: got value %v", i, ev.Value)
		}
		if i > 0 && !ev.Timestamp.After(got[i-1].Timestamp) {
			t.Errorf("event %d out of order", i)
		}
	}
}

func TestMotionBufferCapacity(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	b := NewMotionBuffer(3)
	for i := 0; i < 3; i++ {
		if !b.Append(MotionEvent{Timestamp: t0, Value: float64(i)}) {
			t.Errorf("append %d: unexpected rejection", i)
		}
	}
	if !b.Full() {
		t.Error("expected Full at capacity")
	}
	if b.Append(MotionEvent{Timestamp: t0, Value: 99}) {
		t.Error("append beyond capacity should be rejected")
	}
	if b.Len() != 3 {
		t.Errorf("len: got %d, want 3", b.Len())
	}
}

func TestMotionBufferSingleDrain(t *testing.T) {
	b := NewMotionBuffer(10)
	b.Append(MotionEvent{Value: 1})

	if got := b.Drain(); len(got) != 1 {
		t.Fatalf("first drain: got %d events", len(got))
	}
	expectPanic(t, "second Drain", func() { b.Drain() })
	expectPanic(t, "Append after Drain", func() { b.Append(MotionEvent{}) })
}

func TestMotionBufferEmptyDrain(t *testing.T) {
	b := NewMotionBuffer(5)
	if got := b.Drain(); len(got) != 0 {
		t.Errorf("expected empty drain, got %d", len(got))
	}
}

package gpio

import (
	"errors"
	"testing"
)

func TestRecorderSharedLog(t *testing.T) {
	rec := NewRecorder()
	a := rec.Line("a")
	b := rec.Line("b")

	a.Write(true)
	b.Write(false)
	a.Write(false)

	want := []WriteRecord{{"a", true}, {"b", false}, {"a", false}}
	got := rec.Writes()
	if len(got) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("write %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if a.High() {
		t.Error("a: expected last level low")
	}

	rec.Reset()
	if len(rec.Writes()) != 0 {
		t.Error("expected empty log after Reset")
	}
}

func TestFakeInputLevels(t *testing.T) {
	f := NewFakeInput(false, true)

	for i, want := range []bool{false, true, true} {
		got, err := f.Level()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("read %d: got %v, want %v", i, got, want)
		}
	}
}

func TestFakeInputErrors(t *testing.T) {
	if _, err := NewFakeInput().Level(); err == nil {
		t.Error("expected error with no levels")
	}

	f := NewFakeInput(true)
	f.ReadError = errors.New("simulated error")
	if _, err := f.Level(); err == nil || err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestEdgeQueueDrainOrder(t *testing.T) {
	q := NewEdgeQueue(4)
	q.Push(Edge{Rising: true, Time: 1})
	q.Push(Edge{Rising: false, Time: 2})

	got := q.Drain()
	if len(got) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(got))
	}
	if !got[0].Rising || got[1].Rising {
		t.Errorf("unexpected order: %+v", got)
	}
	if again := q.Drain(); len(again) != 0 {
		t.Errorf("expected empty second drain, got %d", len(again))
	}
}

func TestEdgeQueueDropsWhenFull(t *testing.T) {
	q := NewEdgeQueue(2)
	for i := 0; i < 5; i++ {
		q.Push(Edge{Rising: true})
	}
	if got := len(q.Drain()); got != 2 {
		t.Errorf("expected 2 queued edges, got %d", got)
	}
	if q.Dropped() != 3 {
		t.Errorf("dropped: got %d, want 3", q.Dropped())
	}
}

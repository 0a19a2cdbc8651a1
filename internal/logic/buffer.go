package logic

// MotionBuffer is an append-only, insertion-ordered record of motion
// events for one session. It is drained exactly once when the session
// ends; a second Drain or an Append after Drain panics.
type MotionBuffer struct {
	events   []MotionEvent
	capacity int
	drained  bool
}

// NewMotionBuffer creates a buffer holding at most capacity events.
// A capacity <= 0 means unbounded.
func NewMotionBuffer(capacity int) *MotionBuffer {
	initial := capacity
	if initial <= 0 || initial > 64 {
		initial = 64
	}
	return &MotionBuffer{
		events:   make([]MotionEvent, 0, initial),
		capacity: capacity,
	}
}

// Append stores ev. It returns false, dropping ev, when the buffer is full.
func (b *MotionBuffer) Append(ev MotionEvent) bool {
	if b.drained {
		panic("logic: append to drained motion buffer")
	}
	if b.Full() {
		return false
	}
	b.events = append(b.events, ev)
	return true
}

// Full reports whether the capacity has been reached.
func (b *MotionBuffer) Full() bool {
	return b.capacity > 0 && len(b.events) >= b.capacity
}

// Len returns the number of stored events.
func (b *MotionBuffer) Len() int {
	return len(b.events)
}

// Drain hands over the events in insertion order and invalidates the buffer.
func (b *MotionBuffer) Drain() []MotionEvent {
	if b.drained {
		panic("logic: motion buffer drained twice")
	}
	b.drained = true
	out := b.events
	b.events = nil
	return out
}

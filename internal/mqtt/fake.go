package mqtt

import (
	"sync"

	"github.com/sweeney/rep-counter/internal/logic"
)

// FakePublisher records published messages for test assertions.
type FakePublisher struct {
	mu sync.Mutex

	// Counts contains the count of every published count update.
	Counts []int

	// CountPayloads contains the JSON payloads for count updates.
	CountPayloads [][]byte

	// Summaries contains all published session summaries.
	Summaries []logic.Summary

	// SummaryPayloads contains the JSON payloads for summaries.
	SummaryPayloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// PublishError, if set, will be returned by every publish call.
	PublishError error

	// Block, if set, holds every publish call until it is closed. Set it
	// before the first publish.
	Block <-chan struct{}

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) wait() {
	if f.Block != nil {
		<-f.Block
	}
}

// PublishCount records the count update.
func (f *FakePublisher) PublishCount(ev logic.MotionEvent, count int) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatCountPayload(ev, count)
	if err != nil {
		return err
	}
	f.Counts = append(f.Counts, count)
	f.CountPayloads = append(f.CountPayloads, payload)
	return nil
}

// PublishSummary records the summary.
func (f *FakePublisher) PublishSummary(s logic.Summary) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatSummaryPayload(s)
	if err != nil {
		return err
	}
	f.Summaries = append(f.Summaries, s)
	f.SummaryPayloads = append(f.SummaryPayloads, payload)
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PublishError != nil {
		return f.PublishError
	}
	f.SystemEvents = append(f.SystemEvents, event)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}

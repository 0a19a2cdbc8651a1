package mqtt

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sweeney/rep-counter/internal/logic"
)

// DefaultReporterQueue bounds the updates waiting for the publisher.
const DefaultReporterQueue = 32

// report is one queued publish: a count update or, when summary is set, a
// session summary.
type report struct {
	ev      logic.MotionEvent
	count   int
	summary *logic.Summary
}

// Reporter forwards engine progress to a Publisher from its own goroutine,
// so a slow broker never stalls the engine. Count updates are dropped and
// counted when the queue is full; the last slot is kept for summaries.
// Publish failures are logged and never interrupt the session.
type Reporter struct {
	pub     Publisher
	queue   chan report
	dropped atomic.Uint64

	closeOnce sync.Once
	done      chan struct{}
}

// NewReporter starts a reporter publishing through pub with room for size
// pending updates. Call Close to flush it.
func NewReporter(pub Publisher, size int) *Reporter {
	if size < 2 {
		size = 2
	}
	r := &Reporter{
		pub:   pub,
		queue: make(chan report, size),
		done:  make(chan struct{}),
	}
	go r.loop()
	return r
}

func (r *Reporter) loop() {
	defer close(r.done)
	for rep := range r.queue {
		if rep.summary != nil {
			r.publishSummary(*rep.summary)
			continue
		}
		if err := r.pub.PublishCount(rep.ev, rep.count); err != nil {
			log.Printf("mqtt: publish count error: %v", err)
		}
	}
}

func (r *Reporter) publishSummary(s logic.Summary) {
	if err := r.pub.PublishSummary(s); err != nil {
		log.Printf("mqtt: publish summary error: %v", err)
		return
	}
	log.Printf("mqtt: published session summary (count=%d)", s.Count)
}

// Started is a no-op; lifecycle events are published by the daemon.
func (r *Reporter) Started(at time.Time) {}

// Sampled is a no-op; raw samples are not published.
func (r *Reporter) Sampled(s logic.Sample) {}

// Invalid is a no-op.
func (r *Reporter) Invalid(at time.Time, err error) {}

// Accepted queues a live count update.
func (r *Reporter) Accepted(ev logic.MotionEvent, count int) {
	// the engine is the only sender, so the length cannot grow under us
	if len(r.queue) >= cap(r.queue)-1 {
		if n := r.dropped.Add(1); n == 1 || n%100 == 0 {
			log.Printf("mqtt: publisher behind, %d count updates dropped", n)
		}
		return
	}
	r.queue <- report{ev: ev, count: count}
}

// Ended queues the session summary. It waits only when earlier summaries
// still fill the queue.
func (r *Reporter) Ended(s logic.Summary) {
	r.queue <- report{summary: &s}
}

// Dropped returns how many count updates were discarded.
func (r *Reporter) Dropped() uint64 {
	return r.dropped.Load()
}

// Close publishes what is queued and stops the reporter. The engine must
// have stopped calling it.
func (r *Reporter) Close() {
	r.closeOnce.Do(func() { close(r.queue) })
	<-r.done
}

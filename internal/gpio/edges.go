package gpio

import "sync/atomic"

// EdgeQueue carries edges from the driver's event goroutine to the polling
// loop, which drains it once per tick. Push never blocks; when the queue is
// full new edges are dropped and counted.
type EdgeQueue struct {
	ch      chan Edge
	dropped atomic.Uint64
}

// NewEdgeQueue creates a queue holding up to size pending edges.
func NewEdgeQueue(size int) *EdgeQueue {
	if size <= 0 {
		size = 1
	}
	return &EdgeQueue{ch: make(chan Edge, size)}
}

// Push enqueues e. Safe to call from the driver's callback goroutine.
func (q *EdgeQueue) Push(e Edge) {
	select {
	case q.ch <- e:
	default:
		q.dropped.Add(1)
	}
}

// Drain returns all pending edges in arrival order.
func (q *EdgeQueue) Drain() []Edge {
	var out []Edge
	for {
		select {
		case e := <-q.ch:
			out = append(out, e)
		default:
			return out
		}
	}
}

// Dropped returns how many edges were discarded because the queue was full.
func (q *EdgeQueue) Dropped() uint64 {
	return q.dropped.Load()
}

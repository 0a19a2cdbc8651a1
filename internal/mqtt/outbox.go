package mqtt

import "log"

// pending is a serialized message waiting for a broker connection.
type pending struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// live reports whether the message is a QoS 0 count update. Those are
// superseded by the next update and are evicted first.
func (m pending) live() bool {
	return m.qos == 0
}

// outbox holds messages published while disconnected, oldest first. When
// full it evicts the oldest live count update; session summaries and
// lifecycle events are only evicted when nothing else is left.
// Not safe for concurrent use; the caller synchronizes.
type outbox struct {
	msgs     []pending
	capacity int
	dropped  int
}

func newOutbox(capacity int) *outbox {
	return &outbox{msgs: make([]pending, 0, capacity), capacity: capacity}
}

func (o *outbox) push(m pending) {
	if len(o.msgs) < o.capacity {
		o.msgs = append(o.msgs, m)
		return
	}
	victim := 0
	for i, p := range o.msgs {
		if p.live() {
			victim = i
			break
		}
	}
	if o.dropped == 0 {
		log.Printf("mqtt: outbox full (%d messages), dropping %s", o.capacity, o.msgs[victim].topic)
	}
	o.dropped++
	copy(o.msgs[victim:], o.msgs[victim+1:])
	o.msgs[len(o.msgs)-1] = m
}

// drain returns every pending message in publish order and empties the
// outbox.
func (o *outbox) drain() []pending {
	if len(o.msgs) == 0 {
		return nil
	}
	out := o.msgs
	o.msgs = make([]pending, 0, o.capacity)
	if o.dropped > 0 {
		log.Printf("mqtt: %d buffered messages were dropped while offline", o.dropped)
		o.dropped = 0
	}
	return out
}

func (o *outbox) len() int {
	return len(o.msgs)
}

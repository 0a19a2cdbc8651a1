package mqtt

import "testing"

func countMsg(i int) pending {
	return pending{topic: Topic(DefaultTopicPrefix, TopicCount), payload: []byte{byte(i)}}
}

func summaryMsg(i int) pending {
	return pending{topic: Topic(DefaultTopicPrefix, TopicSession), payload: []byte{byte(i)}, qos: 1}
}

func payloads(msgs []pending) []byte {
	var out []byte
	for _, m := range msgs {
		out = append(out, m.payload[0])
	}
	return out
}

func TestOutboxEmptyDrain(t *testing.T) {
	o := newOutbox(10)
	if got := o.drain(); got != nil {
		t.Errorf("expected nil from empty drain, got %d items", len(got))
	}
}

func TestOutboxReplayOrder(t *testing.T) {
	o := newOutbox(10)
	o.push(countMsg(0))
	o.push(summaryMsg(1))
	o.push(countMsg(2))
	if o.len() != 3 {
		t.Errorf("len: got %d, want 3", o.len())
	}

	if got := payloads(o.drain()); string(got) != string([]byte{0, 1, 2}) {
		t.Errorf("order: got %v, want [0 1 2]", got)
	}
	if o.len() != 0 {
		t.Errorf("len after drain: got %d, want 0", o.len())
	}
}

func TestOutboxEvictsCountsBeforeSummaries(t *testing.T) {
	o := newOutbox(3)
	o.push(summaryMsg(0))
	o.push(countMsg(1))
	o.push(countMsg(2))
	o.push(summaryMsg(3)) // evicts count 1
	o.push(countMsg(4))   // evicts count 2

	got := o.drain()
	if want := []byte{0, 3, 4}; string(payloads(got)) != string(want) {
		t.Errorf("kept: got %v, want %v", payloads(got), want)
	}
}

func TestOutboxAllSummariesDropsOldest(t *testing.T) {
	o := newOutbox(2)
	o.push(summaryMsg(0))
	o.push(summaryMsg(1))
	o.push(summaryMsg(2))

	if got := payloads(o.drain()); string(got) != string([]byte{1, 2}) {
		t.Errorf("kept: got %v, want [1 2]", got)
	}
	if o.dropped != 0 {
		t.Error("dropped counter should reset on drain")
	}
}

func TestOutboxReuseAfterDrain(t *testing.T) {
	o := newOutbox(4)
	for i := 0; i < 3; i++ {
		o.push(countMsg(i))
	}
	o.drain()
	for i := 10; i < 14; i++ {
		o.push(countMsg(i))
	}

	got := payloads(o.drain())
	if want := []byte{10, 11, 12, 13}; string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

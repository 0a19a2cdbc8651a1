// Package mqtt publishes session results and live counts to MQTT, with an
// abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/rep-counter/internal/logic"
)

// DefaultTopicPrefix is prepended to every topic.
const DefaultTopicPrefix = "fitness/rep-counter"

// Topic suffixes.
const (
	TopicCount   = "count"   // one message per accepted event
	TopicSession = "session" // session summary for the external summarizer
	TopicSystem  = "system"  // lifecycle events
)

// Publisher publishes engine output to MQTT.
type Publisher interface {
	// PublishCount sends a live count update.
	// Returns error if publishing fails (should not crash the process).
	PublishCount(ev logic.MotionEvent, count int) error

	// PublishSummary sends the summary of an ended session.
	PublishSummary(s logic.Summary) error

	// PublishSystem sends a system lifecycle event.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g., "STARTUP", "SHUTDOWN", "OFFLINE"
	Reason    string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	Retained  bool   // Whether the message should be retained by the broker
}

// CountPayload is published on TopicCount.
type CountPayload struct {
	Count     int     `json:"count"`
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// SummaryPayload is published on TopicSession.
type SummaryPayload struct {
	Session SessionPayload `json:"session"`
}

// SessionPayload contains the session details.
type SessionPayload struct {
	Count           int            `json:"count"`
	Reason          string         `json:"reason"`
	Created         string         `json:"created"`
	Started         string         `json:"started,omitempty"`
	Ended           string         `json:"ended"`
	DurationSeconds float64        `json:"duration_seconds"`
	Events          []EventPayload `json:"events"`
	// Text is a compact one-line rendering for text-based summarizers.
	Text string `json:"text"`
}

// EventPayload is one (timestamp, derived value) pair.
type EventPayload struct {
	Timestamp string  `json:"timestamp"`
	Unix      float64 `json:"unix"`
	Value     float64 `json:"value"`
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// Topic joins prefix and suffix.
func Topic(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	return strings.TrimSuffix(prefix, "/") + "/" + suffix
}

// FormatCountPayload creates the JSON payload for a live count update.
func FormatCountPayload(ev logic.MotionEvent, count int) ([]byte, error) {
	return json.Marshal(CountPayload{
		Count:     count,
		Timestamp: ev.Timestamp.UTC().Format(time.RFC3339Nano),
		Value:     ev.Value,
	})
}

// FormatSummaryPayload creates the JSON payload for a session summary.
func FormatSummaryPayload(s logic.Summary) ([]byte, error) {
	p := SessionPayload{
		Count:           s.Count,
		Reason:          string(s.Reason),
		Created:         s.Created.UTC().Format(time.RFC3339),
		Ended:           s.Ended.UTC().Format(time.RFC3339),
		DurationSeconds: s.Duration().Seconds(),
		Events:          make([]EventPayload, 0, len(s.Events)),
		Text:            DescribeSummary(s),
	}
	if !s.Started.IsZero() {
		p.Started = s.Started.UTC().Format(time.RFC3339)
	}
	for _, ev := range s.Events {
		p.Events = append(p.Events, EventPayload{
			Timestamp: ev.Timestamp.UTC().Format(time.RFC3339Nano),
			Unix:      float64(ev.Timestamp.UnixNano()) / 1e9,
			Value:     ev.Value,
		})
	}
	return json.Marshal(SummaryPayload{Session: p})
}

// DescribeSummary renders the summary as
// "Count: N, Motion data: [(unix, value), ...]".
func DescribeSummary(s logic.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Count: %d, Motion data: [", s.Count)
	for i, ev := range s.Events {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%.2f, %.2f)", float64(ev.Timestamp.UnixNano())/1e9, ev.Value)
	}
	b.WriteString("]")
	return b.String()
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

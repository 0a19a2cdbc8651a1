package web

import (
	"encoding/json"
	"time"

	"github.com/sweeney/rep-counter/internal/status"
)

// StatusJSON is the JSON representation of the daemon status.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	State          string       `json:"state"`
	Count          int          `json:"count"`
	LastEvent      *EventJSON   `json:"last_event,omitempty"`
	LastRaw        *float64     `json:"last_raw,omitempty"`
	Samples        int          `json:"samples"`
	InvalidSamples int          `json:"invalid_samples"`
	Sessions       int          `json:"sessions"`
	LastSession    *SessionJSON `json:"last_session,omitempty"`
	UptimeSeconds  int64        `json:"uptime_seconds"`
	StartTime      string       `json:"start_time"`
	Timestamp      string       `json:"timestamp"`
	MQTT           MQTTStatus   `json:"mqtt"`
	Config         ConfigJSON   `json:"config"`
}

// EventJSON is the JSON representation of a motion event.
type EventJSON struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

// SessionJSON describes the last ended session.
type SessionJSON struct {
	Count           int     `json:"count"`
	Reason          string  `json:"reason"`
	Ended           string  `json:"ended"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs        int64   `json:"tick_ms"`
	IdleTimeoutMs int64   `json:"idle_timeout_ms"`
	ThresholdUp   float64 `json:"threshold_up"`
	ThresholdDown float64 `json:"threshold_down"`
	MaxEvents     int     `json:"max_events"`
	Digits        int     `json:"digits"`
	Sensor        string  `json:"sensor"`
	Broker        string  `json:"broker"`
	HTTPAddr      string  `json:"http_addr"`
}

// stateOrUnknown maps the zero state to "UNKNOWN".
func stateOrUnknown(s string) string {
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

func buildInner(snap status.Snapshot) StatusInner {
	inner := StatusInner{
		State:          stateOrUnknown(string(snap.State)),
		Count:          snap.Count,
		Samples:        snap.Samples,
		InvalidSamples: snap.InvalidSamples,
		Sessions:       snap.Sessions,
		UptimeSeconds:  int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:      snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		MQTT:           MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			TickMs:        snap.Config.TickMs,
			IdleTimeoutMs: snap.Config.IdleTimeoutMs,
			ThresholdUp:   snap.Config.ThresholdUp,
			ThresholdDown: snap.Config.ThresholdDown,
			MaxEvents:     snap.Config.MaxEvents,
			Digits:        snap.Config.Digits,
			Sensor:        snap.Config.Sensor,
			Broker:        snap.Config.Broker,
			HTTPAddr:      snap.Config.HTTPAddr,
		},
	}
	if snap.HasRaw {
		raw := snap.LastRaw
		inner.LastRaw = &raw
	}
	if snap.LastEvent != nil {
		inner.LastEvent = &EventJSON{
			Timestamp: snap.LastEvent.Timestamp.UTC().Format(time.RFC3339Nano),
			Value:     snap.LastEvent.Value,
		}
	}
	if snap.LastSummary != nil {
		inner.LastSession = &SessionJSON{
			Count:           snap.LastSummary.Count,
			Reason:          string(snap.LastSummary.Reason),
			Ended:           snap.LastSummary.Ended.UTC().Format(time.RFC3339),
			DurationSeconds: snap.LastSummary.Duration.Seconds(),
		}
	}
	return inner
}

func formatJSON(snap status.Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

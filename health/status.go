package health

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// CheckFunc reports whether a dependency is healthy. A nil error means up.
type CheckFunc func(ctx context.Context) error

// Indicator is a named, independently timed health check.
type Indicator struct {
	// Name keys the indicator's entry in HealthStatus.Details.
	Name string

	// Check performs the health check.
	Check CheckFunc

	// Timeout bounds Check. Zero uses the monitor's default.
	Timeout time.Duration
}

// DetailStatus is the outcome of one indicator in one cycle.
type DetailStatus int

const (
	// DetailUp indicates the check completed in time without error.
	DetailUp DetailStatus = iota
	// DetailDown indicates the check failed or timed out.
	DetailDown
)

// String returns the string representation of the detail status.
func (s DetailStatus) String() string {
	switch s {
	case DetailUp:
		return "up"
	case DetailDown:
		return "down"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s DetailStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *DetailStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "up":
		*s = DetailUp
	case "down":
		*s = DetailDown
	default:
		return fmt.Errorf("health: unknown detail status %q", b)
	}
	return nil
}

// ComponentDetail is one indicator's outcome. Latency is set only when up,
// Error only when down.
type ComponentDetail struct {
	Status  DetailStatus
	Latency time.Duration
	Error   string
}

// Up creates an up detail.
func Up(latency time.Duration) ComponentDetail {
	return ComponentDetail{Status: DetailUp, Latency: latency}
}

// Down creates a down detail.
func Down(message string) ComponentDetail {
	return ComponentDetail{Status: DetailDown, Error: message}
}

type componentDetailJSON struct {
	Status  DetailStatus `json:"status"`
	Latency *int64       `json:"latency,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// MarshalJSON encodes latency as integer milliseconds.
func (d ComponentDetail) MarshalJSON() ([]byte, error) {
	out := componentDetailJSON{Status: d.Status}
	if d.Status == DetailUp {
		ms := d.Latency.Milliseconds()
		out.Latency = &ms
	} else {
		out.Error = d.Error
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (d *ComponentDetail) UnmarshalJSON(b []byte) error {
	var in componentDetailJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*d = ComponentDetail{Status: in.Status, Error: in.Error}
	if in.Latency != nil {
		d.Latency = time.Duration(*in.Latency) * time.Millisecond
	}
	return nil
}

// Status is the aggregate health of a snapshot.
type Status int

const (
	// StatusOK indicates every indicator was up and the loop is running.
	StatusOK Status = iota
	// StatusDown indicates at least one indicator failed, or the loop stalled.
	StatusDown
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDown:
		return "down"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "ok":
		*s = StatusOK
	case "down":
		*s = StatusDown
	default:
		return fmt.Errorf("health: unknown status %q", b)
	}
	return nil
}

// HealthStatus is one published snapshot. Snapshots are never mutated after
// publication; Monitor.Status hands out copies.
type HealthStatus struct {
	Status    Status
	Lag       time.Duration
	Details   map[string]ComponentDetail
	Timestamp time.Time
}

type healthStatusJSON struct {
	Status    Status                     `json:"status"`
	Lag       int64                      `json:"lag"`
	Details   map[string]ComponentDetail `json:"details"`
	Timestamp time.Time                  `json:"timestamp"`
}

// MarshalJSON encodes lag as integer milliseconds.
func (h HealthStatus) MarshalJSON() ([]byte, error) {
	details := h.Details
	if details == nil {
		details = map[string]ComponentDetail{}
	}
	return json.Marshal(healthStatusJSON{
		Status:    h.Status,
		Lag:       h.Lag.Milliseconds(),
		Details:   details,
		Timestamp: h.Timestamp,
	})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (h *HealthStatus) UnmarshalJSON(b []byte) error {
	var in healthStatusJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*h = HealthStatus{
		Status:    in.Status,
		Lag:       time.Duration(in.Lag) * time.Millisecond,
		Details:   in.Details,
		Timestamp: in.Timestamp,
	}
	return nil
}

// OK reports whether the snapshot's status is StatusOK.
func (h HealthStatus) OK() bool {
	return h.Status == StatusOK
}

func (h HealthStatus) clone() HealthStatus {
	h.Details = maps.Clone(h.Details)
	return h
}

// aggregate is ok iff every detail is up; an empty set is ok.
func aggregate(details map[string]ComponentDetail) Status {
	for _, d := range details {
		if d.Status != DetailUp {
			return StatusDown
		}
	}
	return StatusOK
}

func stalledStatus(age time.Duration, now time.Time) HealthStatus {
	return HealthStatus{
		Status: StatusDown,
		Lag:    age,
		Details: map[string]ComponentDetail{
			SystemDetailKey: Down(StalledMessage),
		},
		Timestamp: now,
	}
}

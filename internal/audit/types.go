// Package audit provides append-only storage for safety-relevant events:
// critical results and rejected pediatric requests. The trail exists so that
// every urgent flag the system ever raised can be reconstructed afterwards.
package audit

import (
	"context"
	"io"
	"time"
)

// EventType categorizes an audit event.
type EventType string

const (
	EventCriticalResult    EventType = "critical_result"
	EventPediatricRejected EventType = "pediatric_rejected"
)

// IsValid reports whether the event type is one of the defined values.
func (t EventType) IsValid() bool {
	switch t {
	case EventCriticalResult, EventPediatricRejected:
		return true
	default:
		return false
	}
}

// Event is one recorded safety event. Events are immutable once stored;
// there is deliberately no update or delete path.
type Event struct {
	ID            int64     `json:"id,omitempty"`
	Type          EventType `json:"type"`
	CorrelationID string    `json:"correlation_id"`
	TestCode      string    `json:"test_code,omitempty"`
	TestName      string    `json:"test_name,omitempty"`
	Value         float64   `json:"value,omitempty"`
	Unit          string    `json:"unit,omitempty"`
	Direction     string    `json:"direction,omitempty"`
	PatientAge    int       `json:"patient_age"`
	PatientSex    string    `json:"patient_sex,omitempty"`
	Message       string    `json:"message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store defines the interface for audit trail storage.
type Store interface {
	// Record appends an event to the trail.
	Record(ctx context.Context, event *Event) error

	// List returns events newest first, with pagination.
	List(ctx context.Context, limit, offset int) ([]*Event, error)

	// ListByCorrelation returns all events recorded for one request.
	ListByCorrelation(ctx context.Context, correlationID string) ([]*Event, error)

	// Count returns the total number of recorded events.
	Count(ctx context.Context) (int64, error)

	// ExportJSON writes the full trail to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// Close closes the store and releases resources.
	Close() error
}

// Export is the JSON export envelope.
type Export struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Events     []*Event  `json:"events"`
}

// File: internal/events/event.go
package events

import (
	"context"
	"time"
)

// CloudEvent defines the envelope for CloudEvents v1.0.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         *string     `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType *string     `json:"datacontenttype,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// EventType is a string alias for event types.
type EventType string

// Verification lifecycle events emitted by this service.
const (
	EventPaymentAuthorized EventType = "com.matchbook.verification.payment.authorized"
	EventPaymentCaptured   EventType = "com.matchbook.verification.payment.captured"
	EventPaymentCancelled  EventType = "com.matchbook.verification.payment.cancelled"
	EventScreeningStarted  EventType = "com.matchbook.verification.screening.started"
	EventCompleted         EventType = "com.matchbook.verification.completed"
	EventFailed            EventType = "com.matchbook.verification.failed"
)

const (
	CloudEventSpecVersion     = "1.0"
	CloudEventDataContentType = "application/json"
)

// Publisher sends verification lifecycle events downstream. Publish failures
// are logged and never fail the originating request.
type Publisher interface {
	Publish(ctx context.Context, eventType EventType, subject string, data interface{}) error
	Close() error
}

// NoopPublisher satisfies Publisher when eventing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, eventType EventType, subject string, data interface{}) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }

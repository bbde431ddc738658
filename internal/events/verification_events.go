// File: internal/events/verification_events.go
package events

import "time"

// PaymentEventData is the payload for payment lifecycle events.
type PaymentEventData struct {
	UserID          string `json:"user_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

// ScreeningEventData is the payload for screening lifecycle events.
type ScreeningEventData struct {
	UserID         string `json:"user_id"`
	VerificationID string `json:"verification_id"`
	OrderID        string `json:"order_id,omitempty"`
}

// CompletionEventData is the payload for terminal verification events.
type CompletionEventData struct {
	UserID         string     `json:"user_id"`
	VerificationID string     `json:"verification_id"`
	Status         string     `json:"status"`
	ValidUntil     *time.Time `json:"valid_until,omitempty"`
}

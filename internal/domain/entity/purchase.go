// File: internal/domain/entity/purchase.go
package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PurchaseType identifies what a purchase paid for.
type PurchaseType string

const (
	PurchaseTypeVerification    PurchaseType = "matchbookVerification"
	PurchaseTypeBackgroundCheck PurchaseType = "backgroundCheck"
)

// PurchaseStatus mirrors the coarse payment state at the time the purchase
// record was last touched.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

// Purchase is the local record of a paid verification fee. It is created
// lazily the first time a payment intent is observed in a capturable or
// settled state. PaymentIntentID carries a UNIQUE constraint so concurrent
// polls cannot create duplicates.
type Purchase struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Type            PurchaseType
	Amount          int64
	Status          PurchaseStatus
	IsRedeemed      bool
	OrderID         *string
	PaymentIntentID string
	Metadata        json.RawMessage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewVerificationPurchase builds the purchase row for an observed payment
// intent.
func NewVerificationPurchase(userID uuid.UUID, paymentIntentID string, amount int64, status PurchaseStatus) *Purchase {
	now := time.Now().UTC()
	meta, _ := json.Marshal(map[string]string{"paymentIntentId": paymentIntentID})
	return &Purchase{
		ID:              uuid.New(),
		UserID:          userID,
		Type:            PurchaseTypeVerification,
		Amount:          amount,
		Status:          status,
		PaymentIntentID: paymentIntentID,
		Metadata:        meta,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// File: internal/domain/models/verification_dtos.go
package models

import "time"

// SetupIntentResult is returned from setup-intent creation.
type SetupIntentResult struct {
	ClientSecret  string `json:"clientSecret"`
	SetupIntentID string `json:"setupIntentId"`
	SessionID     string `json:"sessionId"`
}

// ChargeRequest charges a previously saved payment method for the
// verification fee. SessionID, when present, is the one-shot session handed
// out at setup-intent creation; it is validated and consumed by the charge.
type ChargeRequest struct {
	PaymentMethodID string `json:"paymentMethodId" binding:"required"`
	SessionID       string `json:"sessionId"`
}

// ChargeResult is returned from charge-payment-method.
type ChargeResult struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// PaymentStatusResult is the poll projection of a payment intent.
type PaymentStatusResult struct {
	Status          string `json:"status"`
	PaymentIntentID string `json:"paymentIntentId"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	PurchaseCreated bool   `json:"purchaseCreated"`
}

// CancelPaymentRequest releases a card hold.
type CancelPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}

// CancelPaymentResult reports the outcome of a hold release.
type CancelPaymentResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SubmitRequest carries the subject details for the orchestrated
// credit-then-background verification run.
type SubmitRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	SSN             string `json:"ssn" binding:"required"`
	DOB             string `json:"dob" binding:"required"`
	Address         string `json:"address" binding:"required"`
	City            string `json:"city" binding:"required"`
	State           string `json:"state" binding:"required"`
	Zip             string `json:"zip" binding:"required"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// SubmitResult reports the outcome of a verification run.
type SubmitResult struct {
	Success        bool   `json:"success"`
	Status         string `json:"status"`
	VerificationID string `json:"verificationId,omitempty"`
	CreditBucket   string `json:"creditBucket,omitempty"`
	OrderNumber    string `json:"orderNumber,omitempty"`
	Message        string `json:"message"`
}

// VerificationProjection is the flattened client-facing status view joining
// the verification record with its reports and purchase.
type VerificationProjection struct {
	VerificationID      string     `json:"verificationId"`
	Status              string     `json:"status"`
	CreditStatus        string     `json:"creditStatus"`
	CreditBucket        *string    `json:"creditBucket"`
	CreditCheckedAt     *time.Time `json:"creditCheckedAt"`
	EvictionStatus      string     `json:"evictionStatus"`
	EvictionCount       *int       `json:"evictionCount"`
	CriminalStatus      string     `json:"criminalStatus"`
	CriminalRecordCount *int       `json:"criminalRecordCount"`
	ScreeningDate       *time.Time `json:"screeningDate"`
	ValidUntil          *time.Time `json:"validUntil"`
	OrderID             *string    `json:"orderId"`
	PurchaseID          *string    `json:"purchaseId"`
	PaymentCapturedAt   *time.Time `json:"paymentCapturedAt"`
	PaymentCancelledAt  *time.Time `json:"paymentCancelledAt"`
}

// FinalizeResult wraps the finalized verification for the response body.
type FinalizeResult struct {
	Success      bool                   `json:"success"`
	Verification VerificationProjection `json:"verification"`
}

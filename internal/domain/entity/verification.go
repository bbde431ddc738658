// File: internal/domain/entity/verification.go
package entity

import (
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
)

// VerificationStatus is the lifecycle state of a renter verification.
type VerificationStatus string

const (
	StatusNotStarted    VerificationStatus = "NOT_STARTED"
	StatusPending       VerificationStatus = "PENDING"
	StatusProcessingBGS VerificationStatus = "PROCESSING_BGS"
	StatusCompleted     VerificationStatus = "COMPLETED"
	StatusFailed        VerificationStatus = "FAILED"
	StatusExpired       VerificationStatus = "EXPIRED"
)

// CheckStatus is the state of an individual sub-check (credit, eviction,
// criminal).
type CheckStatus string

const (
	CheckPending   CheckStatus = "Pending"
	CheckCompleted CheckStatus = "Completed"
	CheckFailed    CheckStatus = "Failed"
)

// CreditBucket is the coarse score band reported to hosts in place of a raw
// credit score.
type CreditBucket string

const (
	CreditBucketExceptional CreditBucket = "Exceptional"
	CreditBucketGood        CreditBucket = "Good"
	CreditBucketFair        CreditBucket = "Fair"
	CreditBucketLow         CreditBucket = "Low"
)

// ValidityWindow is how long a completed screening remains usable.
const ValidityWindow = 90 * 24 * time.Hour

// statusTransitions is the single authority for legal status moves. Every
// mutation goes through transitionTo; there are no ad-hoc status writes.
var statusTransitions = map[VerificationStatus][]VerificationStatus{
	StatusNotStarted:    {StatusPending, StatusFailed, StatusExpired},
	StatusPending:       {StatusProcessingBGS, StatusFailed, StatusExpired},
	StatusProcessingBGS: {StatusProcessingBGS, StatusCompleted, StatusFailed, StatusExpired},
	StatusCompleted:     {StatusExpired},
	StatusFailed:        {StatusPending, StatusExpired},
	StatusExpired:       {},
}

// Verification is the local aggregate tracking credit, background and payment
// sub-status for one renter verification attempt. A user may accumulate
// several records over time; the most recent by CreatedAt is authoritative.
type Verification struct {
	ID                     uuid.UUID
	UserID                 uuid.UUID
	PurchaseID             *uuid.UUID
	Status                 VerificationStatus
	CreditStatus           CheckStatus
	CreditBucket           *CreditBucket
	EvictionStatus         CheckStatus
	EvictionCount          *int
	CriminalStatus         CheckStatus
	CriminalRecordCount    *int
	ScreeningDate          *time.Time
	ValidUntil             *time.Time
	PaymentCapturedAt      *time.Time
	PaymentCancelledAt     *time.Time
	VerificationRefundedAt *time.Time
	Notes                  *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NewVerification returns a fresh record owned by userID.
func NewVerification(userID uuid.UUID) *Verification {
	now := time.Now().UTC()
	return &Verification{
		ID:             uuid.New(),
		UserID:         userID,
		Status:         StatusNotStarted,
		CreditStatus:   CheckPending,
		EvictionStatus: CheckPending,
		CriminalStatus: CheckPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// CanTransitionTo reports whether moving to next is legal from the current
// status.
func (v *Verification) CanTransitionTo(next VerificationStatus) bool {
	for _, s := range statusTransitions[v.Status] {
		if s == next {
			return true
		}
	}
	return false
}

func (v *Verification) transitionTo(next VerificationStatus) error {
	if !v.CanTransitionTo(next) {
		return domainErrors.ErrInvalidTransition
	}
	v.Status = next
	v.UpdatedAt = time.Now().UTC()
	return nil
}

// StartPending moves the record into PENDING when a payment attempt begins.
func (v *Verification) StartPending() error {
	return v.transitionTo(StatusPending)
}

// MarkProcessingBGS advances the record into the background-screening stage.
// It stamps the screening date, derives the validity window and resets the
// eviction/criminal sub-checks to Pending. CreditBucket is set by the earlier
// credit-check step and deliberately left untouched.
func (v *Verification) MarkProcessingBGS(screeningDate time.Time) error {
	if err := v.transitionTo(StatusProcessingBGS); err != nil {
		return err
	}
	screeningDate = screeningDate.UTC()
	validUntil := screeningDate.Add(ValidityWindow)
	v.ScreeningDate = &screeningDate
	v.ValidUntil = &validUntil
	v.EvictionStatus = CheckPending
	v.EvictionCount = nil
	v.CriminalStatus = CheckPending
	v.CriminalRecordCount = nil
	return nil
}

// MarkCompleted records arrival of the final screening result.
func (v *Verification) MarkCompleted(evictionCount, criminalRecordCount int) error {
	if err := v.transitionTo(StatusCompleted); err != nil {
		return err
	}
	v.EvictionStatus = CheckCompleted
	v.EvictionCount = &evictionCount
	v.CriminalStatus = CheckCompleted
	v.CriminalRecordCount = &criminalRecordCount
	return nil
}

// MarkFailed moves the record into FAILED with an operator-readable note.
func (v *Verification) MarkFailed(note string) error {
	if err := v.transitionTo(StatusFailed); err != nil {
		return err
	}
	if note != "" {
		v.Notes = &note
	}
	return nil
}

// MarkPaymentCancelled records release of the card hold. The record fails and
// both cancellation timestamps are stamped.
func (v *Verification) MarkPaymentCancelled(at time.Time) error {
	if err := v.transitionTo(StatusFailed); err != nil {
		return err
	}
	at = at.UTC()
	v.PaymentCancelledAt = &at
	v.VerificationRefundedAt = &at
	return nil
}

// MarkCaptured stamps the payment capture time. Capture is a payment-side
// event and does not move the verification status.
func (v *Verification) MarkCaptured(at time.Time) {
	at = at.UTC()
	v.PaymentCapturedAt = &at
	v.UpdatedAt = time.Now().UTC()
}

// SetCreditResult records the credit-check outcome.
func (v *Verification) SetCreditResult(passed bool, bucket CreditBucket) {
	if passed {
		v.CreditStatus = CheckCompleted
		v.CreditBucket = &bucket
	} else {
		v.CreditStatus = CheckFailed
	}
	v.UpdatedAt = time.Now().UTC()
}

// IsExpired reports whether the validity window has lapsed. Expiry is only
// evaluated lazily on reads; there is no background sweep.
func (v *Verification) IsExpired(now time.Time) bool {
	return v.ValidUntil != nil && now.After(*v.ValidUntil)
}

// MarkExpired flips the record to EXPIRED. Legal from every status except
// EXPIRED itself, since expiry overrides whatever was stored before.
func (v *Verification) MarkExpired() error {
	return v.transitionTo(StatusExpired)
}

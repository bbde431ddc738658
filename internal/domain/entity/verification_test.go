// File: internal/domain/entity/verification_test.go
package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
)

func TestVerification_StatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    VerificationStatus
		to      VerificationStatus
		allowed bool
	}{
		{"not started to pending", StatusNotStarted, StatusPending, true},
		{"not started to completed", StatusNotStarted, StatusCompleted, false},
		{"pending to processing", StatusPending, StatusProcessingBGS, true},
		{"pending to completed", StatusPending, StatusCompleted, false},
		{"processing to completed", StatusProcessingBGS, StatusCompleted, true},
		{"processing to failed", StatusProcessingBGS, StatusFailed, true},
		{"processing re-entry", StatusProcessingBGS, StatusProcessingBGS, true},
		{"completed to pending", StatusCompleted, StatusPending, false},
		{"completed to expired", StatusCompleted, StatusExpired, true},
		{"failed to pending retry", StatusFailed, StatusPending, true},
		{"expired is terminal", StatusExpired, StatusPending, false},
		{"expired stays expired", StatusExpired, StatusExpired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVerification(uuid.New())
			v.Status = tt.from
			assert.Equal(t, tt.allowed, v.CanTransitionTo(tt.to))
		})
	}
}

func TestVerification_MarkProcessingBGS(t *testing.T) {
	v := NewVerification(uuid.New())
	require.NoError(t, v.StartPending())

	bucket := CreditBucketGood
	v.CreditBucket = &bucket
	v.CreditStatus = CheckCompleted

	screeningDate := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, v.MarkProcessingBGS(screeningDate))

	assert.Equal(t, StatusProcessingBGS, v.Status)
	require.NotNil(t, v.ScreeningDate)
	assert.Equal(t, screeningDate, *v.ScreeningDate)
	require.NotNil(t, v.ValidUntil)
	assert.Equal(t, screeningDate.Add(ValidityWindow), *v.ValidUntil)

	// The screening sub-checks restart, the earlier credit result stays.
	assert.Equal(t, CheckPending, v.EvictionStatus)
	assert.Equal(t, CheckPending, v.CriminalStatus)
	assert.Nil(t, v.EvictionCount)
	assert.Nil(t, v.CriminalRecordCount)
	assert.Equal(t, CheckCompleted, v.CreditStatus)
	require.NotNil(t, v.CreditBucket)
	assert.Equal(t, CreditBucketGood, *v.CreditBucket)
}

func TestVerification_MarkProcessingBGS_FromNotStarted(t *testing.T) {
	v := NewVerification(uuid.New())
	err := v.MarkProcessingBGS(time.Now())
	assert.ErrorIs(t, err, domainErrors.ErrInvalidTransition)
	assert.Equal(t, StatusNotStarted, v.Status)
	assert.Nil(t, v.ValidUntil)
}

func TestVerification_MarkCompleted(t *testing.T) {
	v := NewVerification(uuid.New())
	require.NoError(t, v.StartPending())
	require.NoError(t, v.MarkProcessingBGS(time.Now()))

	require.NoError(t, v.MarkCompleted(1, 0))
	assert.Equal(t, StatusCompleted, v.Status)
	assert.Equal(t, CheckCompleted, v.EvictionStatus)
	assert.Equal(t, CheckCompleted, v.CriminalStatus)
	require.NotNil(t, v.EvictionCount)
	assert.Equal(t, 1, *v.EvictionCount)
	require.NotNil(t, v.CriminalRecordCount)
	assert.Equal(t, 0, *v.CriminalRecordCount)

	// A replayed result cannot re-complete the record.
	assert.ErrorIs(t, v.MarkCompleted(2, 2), domainErrors.ErrInvalidTransition)
	assert.Equal(t, 1, *v.EvictionCount)
}

func TestVerification_MarkPaymentCancelled(t *testing.T) {
	v := NewVerification(uuid.New())
	require.NoError(t, v.StartPending())

	at := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, v.MarkPaymentCancelled(at))

	assert.Equal(t, StatusFailed, v.Status)
	require.NotNil(t, v.PaymentCancelledAt)
	assert.Equal(t, at, *v.PaymentCancelledAt)
	require.NotNil(t, v.VerificationRefundedAt)
	assert.Equal(t, at, *v.VerificationRefundedAt)
}

func TestVerification_MarkPaymentCancelled_AfterCompletion(t *testing.T) {
	v := NewVerification(uuid.New())
	require.NoError(t, v.StartPending())
	require.NoError(t, v.MarkProcessingBGS(time.Now()))
	require.NoError(t, v.MarkCompleted(0, 0))

	err := v.MarkPaymentCancelled(time.Now())
	assert.ErrorIs(t, err, domainErrors.ErrInvalidTransition)
	assert.Equal(t, StatusCompleted, v.Status)
	assert.Nil(t, v.PaymentCancelledAt)
}

func TestVerification_Expiry(t *testing.T) {
	v := NewVerification(uuid.New())
	require.NoError(t, v.StartPending())

	screeningDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, v.MarkProcessingBGS(screeningDate))
	require.NoError(t, v.MarkCompleted(0, 0))

	assert.False(t, v.IsExpired(screeningDate.Add(ValidityWindow-time.Hour)))
	assert.True(t, v.IsExpired(screeningDate.Add(ValidityWindow+time.Hour)))

	require.NoError(t, v.MarkExpired())
	assert.Equal(t, StatusExpired, v.Status)
	assert.ErrorIs(t, v.MarkExpired(), domainErrors.ErrInvalidTransition)
}

func TestVerification_MarkCaptured_KeepsStatus(t *testing.T) {
	v := NewVerification(uuid.New())
	require.NoError(t, v.StartPending())

	at := time.Now().UTC()
	v.MarkCaptured(at)
	assert.Equal(t, StatusPending, v.Status)
	require.NotNil(t, v.PaymentCapturedAt)
	assert.Equal(t, at, *v.PaymentCapturedAt)
}

func TestVerification_SetCreditResult(t *testing.T) {
	v := NewVerification(uuid.New())

	v.SetCreditResult(true, CreditBucketExceptional)
	assert.Equal(t, CheckCompleted, v.CreditStatus)
	require.NotNil(t, v.CreditBucket)
	assert.Equal(t, CreditBucketExceptional, *v.CreditBucket)

	v2 := NewVerification(uuid.New())
	v2.SetCreditResult(false, CreditBucketLow)
	assert.Equal(t, CheckFailed, v2.CreditStatus)
	assert.Nil(t, v2.CreditBucket)
}

// File: internal/service/webhook_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
	"github.com/matchbook-rentals/verification-service/internal/domain/interfaces"
)

type webhookServiceMocks struct {
	gateway      *MockPaymentGateway
	screening    *MockScreeningProvider
	verifRepo    *MockVerificationRepository
	purchaseRepo *MockPurchaseRepository
	bgsRepo      *MockBGSReportRepository
	publisher    *MockPublisher
	auditRepo    *MockAuditLogRepository
}

func newWebhookService(t *testing.T) (*WebhookService, *webhookServiceMocks) {
	t.Helper()
	m := &webhookServiceMocks{
		gateway:      new(MockPaymentGateway),
		screening:    new(MockScreeningProvider),
		verifRepo:    new(MockVerificationRepository),
		purchaseRepo: new(MockPurchaseRepository),
		bgsRepo:      new(MockBGSReportRepository),
		publisher:    new(MockPublisher),
		auditRepo:    new(MockAuditLogRepository),
	}
	svc := NewWebhookService(
		m.gateway, m.screening,
		m.verifRepo, m.purchaseRepo, m.bgsRepo,
		m.publisher, m.auditRepo, zap.NewNop(),
	)
	return svc, m
}

func TestHandleStripeEvent_BadSignature(t *testing.T) {
	svc, m := newWebhookService(t)
	payload := []byte(`{"id":"evt_1"}`)

	m.gateway.On("ParseWebhookEvent", payload, "bad-sig").
		Return(nil, domainErrors.ErrSignatureInvalid)

	err := svc.HandleStripeEvent(context.Background(), payload, "bad-sig")
	assert.ErrorIs(t, err, domainErrors.ErrSignatureInvalid)

	// Nothing was written.
	m.purchaseRepo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
	m.verifRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHandleStripeEvent_AmountCapturableCreatesPurchase(t *testing.T) {
	svc, m := newWebhookService(t)
	userID := uuid.New()
	payload := []byte(`{}`)

	m.gateway.On("ParseWebhookEvent", payload, "sig").Return(&interfaces.WebhookEvent{
		ID:   "evt_1",
		Type: "payment_intent.amount_capturable_updated",
		PaymentIntent: &interfaces.PaymentIntent{
			ID:       "pi_1",
			Status:   interfaces.PaymentIntentRequiresCapture,
			Amount:   2500,
			Currency: "usd",
			Metadata: map[string]string{"type": "matchbookVerification", "userId": userID.String()},
		},
	}, nil)
	m.purchaseRepo.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(p *entity.Purchase) bool {
		return p.PaymentIntentID == "pi_1" && p.UserID == userID
	})).Return(true, nil)
	m.publisher.On("Publish", mock.Anything, mock.Anything, userID.String(), mock.Anything).Return(nil)

	require.NoError(t, svc.HandleStripeEvent(context.Background(), payload, "sig"))
	m.purchaseRepo.AssertExpectations(t)
}

func TestHandleStripeEvent_ForeignMetadataIgnored(t *testing.T) {
	svc, m := newWebhookService(t)
	payload := []byte(`{}`)

	m.gateway.On("ParseWebhookEvent", payload, "sig").Return(&interfaces.WebhookEvent{
		ID:   "evt_2",
		Type: "payment_intent.succeeded",
		PaymentIntent: &interfaces.PaymentIntent{
			ID:       "pi_other",
			Status:   interfaces.PaymentIntentSucceeded,
			Metadata: map[string]string{"type": "subscription"},
		},
	}, nil)

	require.NoError(t, svc.HandleStripeEvent(context.Background(), payload, "sig"))
	m.purchaseRepo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestHandleStripeEvent_CanceledIsMonotonic(t *testing.T) {
	svc, m := newWebhookService(t)
	userID := uuid.New()
	payload := []byte(`{}`)

	m.gateway.On("ParseWebhookEvent", payload, "sig").Return(&interfaces.WebhookEvent{
		ID:   "evt_3",
		Type: "payment_intent.canceled",
		PaymentIntent: &interfaces.PaymentIntent{
			ID:       "pi_1",
			Status:   interfaces.PaymentIntentCanceled,
			Metadata: map[string]string{"type": "matchbookVerification", "userId": userID.String()},
		},
	}, nil)
	m.purchaseRepo.On("FindByPaymentIntentID", mock.Anything, "pi_1").
		Return(nil, domainErrors.ErrPurchaseNotFound)

	// A verification that already completed must not regress.
	verification := entity.NewVerification(userID)
	require.NoError(t, verification.StartPending())
	require.NoError(t, verification.MarkProcessingBGS(time.Now().UTC()))
	require.NoError(t, verification.MarkCompleted(0, 0))
	m.verifRepo.On("FindLatestByUserID", mock.Anything, userID).Return(verification, nil)

	require.NoError(t, svc.HandleStripeEvent(context.Background(), payload, "sig"))
	assert.Equal(t, entity.StatusCompleted, verification.Status)
	m.verifRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHandleScreeningResult_BadSignature(t *testing.T) {
	svc, m := newWebhookService(t)
	payload := []byte(`<XML><order_number>ORD-1</order_number></XML>`)

	m.screening.On("ValidSignature", payload, "bad").Return(false)

	err := svc.HandleScreeningResult(context.Background(), payload, "bad")
	assert.ErrorIs(t, err, domainErrors.ErrSignatureInvalid)
	m.screening.AssertNotCalled(t, "ParseCallback", mock.Anything)
	m.bgsRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestHandleScreeningResult_CompletesVerification(t *testing.T) {
	svc, m := newWebhookService(t)
	userID := uuid.New()
	purchaseID := uuid.New()
	payload := []byte(`<XML>...</XML>`)

	m.screening.On("ValidSignature", payload, "sig").Return(true)
	m.screening.On("ParseCallback", payload).Return(&interfaces.ScreeningCallback{
		OrderID:             "ORD-1",
		Status:              interfaces.ScreeningResultCompleted,
		EvictionCount:       0,
		CriminalRecordCount: 1,
		Raw:                 payload,
	}, nil)

	report := &entity.BGSReport{
		ID:         uuid.New(),
		PurchaseID: purchaseID,
		UserID:     userID,
		OrderID:    "ORD-1",
		Status:     entity.BGSReportPending,
	}
	m.bgsRepo.On("FindByOrderID", mock.Anything, "ORD-1").Return(report, nil)
	m.bgsRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *entity.BGSReport) bool {
		return r.Status == entity.BGSReportCompleted && r.ReceivedAt != nil && *r.CriminalRecordCount == 1
	})).Return(nil)

	verification := entity.NewVerification(userID)
	require.NoError(t, verification.StartPending())
	require.NoError(t, verification.MarkProcessingBGS(time.Now().UTC()))
	m.verifRepo.On("FindByPurchaseID", mock.Anything, purchaseID).Return(verification, nil)
	m.verifRepo.On("Update", mock.Anything, mock.MatchedBy(func(v *entity.Verification) bool {
		return v.Status == entity.StatusCompleted &&
			v.EvictionStatus == entity.CheckCompleted &&
			*v.CriminalRecordCount == 1
	})).Return(nil)

	m.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.publisher.On("Publish", mock.Anything, mock.Anything, verification.ID.String(), mock.Anything).Return(nil)

	require.NoError(t, svc.HandleScreeningResult(context.Background(), payload, "sig"))
	m.bgsRepo.AssertExpectations(t)
	m.verifRepo.AssertExpectations(t)
}

func TestHandleScreeningResult_UnknownOrder(t *testing.T) {
	svc, m := newWebhookService(t)
	payload := []byte(`<XML>...</XML>`)

	m.screening.On("ValidSignature", payload, "sig").Return(true)
	m.screening.On("ParseCallback", payload).Return(&interfaces.ScreeningCallback{
		OrderID: "ORD-missing",
		Status:  interfaces.ScreeningResultCompleted,
		Raw:     payload,
	}, nil)
	m.bgsRepo.On("FindByOrderID", mock.Anything, "ORD-missing").
		Return(nil, domainErrors.ErrNotFound)

	err := svc.HandleScreeningResult(context.Background(), payload, "sig")
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
}

func TestHandleScreeningResult_ReplayedCallbackDropped(t *testing.T) {
	svc, m := newWebhookService(t)
	userID := uuid.New()
	purchaseID := uuid.New()
	payload := []byte(`<XML>...</XML>`)

	m.screening.On("ValidSignature", payload, "sig").Return(true)
	m.screening.On("ParseCallback", payload).Return(&interfaces.ScreeningCallback{
		OrderID: "ORD-1",
		Status:  interfaces.ScreeningResultFailed,
		Raw:     payload,
	}, nil)

	report := &entity.BGSReport{
		ID:         uuid.New(),
		PurchaseID: purchaseID,
		UserID:     userID,
		OrderID:    "ORD-1",
		Status:     entity.BGSReportCompleted,
	}
	m.bgsRepo.On("FindByOrderID", mock.Anything, "ORD-1").Return(report, nil)
	m.bgsRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	// The verification already completed; a late failure callback is dropped.
	verification := entity.NewVerification(userID)
	require.NoError(t, verification.StartPending())
	require.NoError(t, verification.MarkProcessingBGS(time.Now().UTC()))
	require.NoError(t, verification.MarkCompleted(0, 0))
	m.verifRepo.On("FindByPurchaseID", mock.Anything, purchaseID).Return(verification, nil)

	require.NoError(t, svc.HandleScreeningResult(context.Background(), payload, "sig"))
	assert.Equal(t, entity.StatusCompleted, verification.Status)
	m.verifRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

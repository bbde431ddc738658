// File: internal/service/webhook_service.go
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
	"github.com/matchbook-rentals/verification-service/internal/domain/interfaces"
	"github.com/matchbook-rentals/verification-service/internal/domain/repository"
	"github.com/matchbook-rentals/verification-service/internal/events"
	"github.com/matchbook-rentals/verification-service/internal/utils/metrics"
)

// WebhookService ingests asynchronous vendor callbacks. Updates are
// monotonic: a late or replayed callback that would move a record backwards
// hits the transition table and is dropped as a no-op, so webhook delivery
// and status polling can race freely.
type WebhookService struct {
	gateway      interfaces.PaymentGateway
	screening    interfaces.ScreeningProvider
	verifRepo    repository.VerificationRepository
	purchaseRepo repository.PurchaseRepository
	bgsRepo      repository.BGSReportRepository
	publisher    events.Publisher
	audit        *auditor
	logger       *zap.Logger
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(
	gateway interfaces.PaymentGateway,
	screening interfaces.ScreeningProvider,
	verifRepo repository.VerificationRepository,
	purchaseRepo repository.PurchaseRepository,
	bgsRepo repository.BGSReportRepository,
	publisher events.Publisher,
	auditRepo repository.AuditLogRepository,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		gateway:      gateway,
		screening:    screening,
		verifRepo:    verifRepo,
		purchaseRepo: purchaseRepo,
		bgsRepo:      bgsRepo,
		publisher:    publisher,
		audit:        newAuditor(auditRepo, logger),
		logger:       logger,
	}
}

// HandleStripeEvent verifies and applies a payment gateway webhook. Events
// for intents this service did not create are acknowledged and skipped.
func (s *WebhookService) HandleStripeEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.gateway.ParseWebhookEvent(payload, signatureHeader)
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues("stripe", "rejected").Inc()
		return err
	}

	if event.PaymentIntent == nil {
		s.logger.Debug("ignoring unhandled stripe event", zap.String("type", event.Type))
		metrics.WebhooksTotal.WithLabelValues("stripe", "ignored").Inc()
		return nil
	}
	intent := event.PaymentIntent
	if intent.Metadata[metadataKeyType] != string(entity.PurchaseTypeVerification) {
		metrics.WebhooksTotal.WithLabelValues("stripe", "ignored").Inc()
		return nil
	}
	userID, err := uuid.Parse(intent.Metadata[metadataKeyUserID])
	if err != nil {
		s.logger.Warn("stripe event missing user metadata",
			zap.String("event_id", event.ID),
			zap.String("payment_intent_id", intent.ID),
		)
		metrics.WebhooksTotal.WithLabelValues("stripe", "ignored").Inc()
		return nil
	}

	switch event.Type {
	case "payment_intent.amount_capturable_updated":
		err = s.onAuthorized(ctx, userID, intent, entity.PurchaseStatusPending)
	case "payment_intent.succeeded":
		err = s.onCaptured(ctx, userID, intent)
	case "payment_intent.canceled":
		err = s.onCancelled(ctx, userID, intent)
	case "payment_intent.payment_failed":
		err = s.onPaymentFailed(ctx, userID, intent)
	default:
		metrics.WebhooksTotal.WithLabelValues("stripe", "ignored").Inc()
		return nil
	}
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues("stripe", "error").Inc()
		return err
	}
	metrics.WebhooksTotal.WithLabelValues("stripe", "ok").Inc()
	return nil
}

// onAuthorized records the purchase for a newly authorized hold.
func (s *WebhookService) onAuthorized(ctx context.Context, userID uuid.UUID, intent *interfaces.PaymentIntent, status entity.PurchaseStatus) error {
	purchase := entity.NewVerificationPurchase(userID, intent.ID, intent.Amount, status)
	inserted, err := s.purchaseRepo.CreateIfAbsent(ctx, purchase)
	if err != nil {
		return err
	}
	if inserted {
		metrics.PurchasesCreatedTotal.Inc()
		if pubErr := s.publisher.Publish(ctx, events.EventPaymentAuthorized, userID.String(), events.PaymentEventData{
			UserID:          userID.String(),
			PaymentIntentID: intent.ID,
			Amount:          intent.Amount,
			Currency:        intent.Currency,
		}); pubErr != nil {
			s.logger.Error("failed to publish payment authorized event", zap.Error(pubErr))
		}
	}
	return nil
}

// onCaptured settles the purchase and stamps the capture time on the active
// verification.
func (s *WebhookService) onCaptured(ctx context.Context, userID uuid.UUID, intent *interfaces.PaymentIntent) error {
	if err := s.onAuthorized(ctx, userID, intent, entity.PurchaseStatusCompleted); err != nil {
		return err
	}

	purchase, err := s.purchaseRepo.FindByPaymentIntentID(ctx, intent.ID)
	if err != nil {
		return err
	}
	if purchase.Status != entity.PurchaseStatusCompleted {
		purchase.Status = entity.PurchaseStatusCompleted
		if err := s.purchaseRepo.Update(ctx, purchase); err != nil {
			return err
		}
	}

	verification, err := s.verifRepo.FindLatestByUserID(ctx, userID)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if verification.PaymentCapturedAt == nil {
		verification.MarkCaptured(nowUTC())
		if err := s.verifRepo.Update(ctx, verification); err != nil {
			return err
		}
	}

	s.audit.record(ctx, userID.String(), "webhook.payment.captured", "payment_intent", intent.ID, entity.AuditLogStatusSuccess, nil)
	return nil
}

// onCancelled mirrors a gateway-side cancellation into local state.
func (s *WebhookService) onCancelled(ctx context.Context, userID uuid.UUID, intent *interfaces.PaymentIntent) error {
	purchase, err := s.purchaseRepo.FindByPaymentIntentID(ctx, intent.ID)
	if err != nil && !domainErrors.IsNotFound(err) {
		return err
	}
	if purchase != nil && purchase.Status != entity.PurchaseStatusCancelled {
		purchase.Status = entity.PurchaseStatusCancelled
		if err := s.purchaseRepo.Update(ctx, purchase); err != nil {
			return err
		}
	}

	verification, err := s.verifRepo.FindLatestByUserID(ctx, userID)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if err := verification.MarkPaymentCancelled(nowUTC()); err != nil {
		// Late cancellation against a terminal record; drop it.
		s.logger.Debug("ignoring cancellation for terminal verification",
			zap.String("verification_id", verification.ID.String()),
			zap.String("status", string(verification.Status)),
		)
		return nil
	}
	if err := s.verifRepo.Update(ctx, verification); err != nil {
		return err
	}
	metrics.VerificationsByStatus.WithLabelValues(string(entity.StatusFailed)).Inc()

	s.audit.record(ctx, userID.String(), "webhook.payment.cancelled", "payment_intent", intent.ID, entity.AuditLogStatusSuccess, nil)
	return nil
}

// onPaymentFailed fails a verification stuck behind a declined charge.
func (s *WebhookService) onPaymentFailed(ctx context.Context, userID uuid.UUID, intent *interfaces.PaymentIntent) error {
	verification, err := s.verifRepo.FindLatestByUserID(ctx, userID)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	if err := verification.MarkFailed("payment declined"); err != nil {
		s.logger.Debug("ignoring payment failure for terminal verification",
			zap.String("verification_id", verification.ID.String()),
			zap.String("status", string(verification.Status)),
		)
		return nil
	}
	if err := s.verifRepo.Update(ctx, verification); err != nil {
		return err
	}
	metrics.VerificationsByStatus.WithLabelValues(string(entity.StatusFailed)).Inc()

	s.audit.record(ctx, userID.String(), "webhook.payment.failed", "payment_intent", intent.ID, entity.AuditLogStatusFailure, nil)
	return nil
}

// HandleScreeningResult verifies and applies a background-screening result
// callback.
func (s *WebhookService) HandleScreeningResult(ctx context.Context, payload []byte, signatureHeader string) error {
	if !s.screening.ValidSignature(payload, signatureHeader) {
		metrics.WebhooksTotal.WithLabelValues("accio", "rejected").Inc()
		return domainErrors.ErrSignatureInvalid
	}

	callback, err := s.screening.ParseCallback(payload)
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues("accio", "rejected").Inc()
		return err
	}

	report, err := s.bgsRepo.FindByOrderID(ctx, callback.OrderID)
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues("accio", "error").Inc()
		if domainErrors.IsNotFound(err) {
			return fmt.Errorf("%w: unknown order %s", domainErrors.ErrNotFound, callback.OrderID)
		}
		return err
	}

	now := nowUTC()
	report.Status = entity.BGSReportCompleted
	if callback.Status == interfaces.ScreeningResultFailed {
		report.Status = entity.BGSReportFailed
	}
	report.EvictionCount = &callback.EvictionCount
	report.CriminalRecordCount = &callback.CriminalRecordCount
	report.Payload = callback.Raw
	report.ReceivedAt = &now
	if err := s.bgsRepo.Update(ctx, report); err != nil {
		metrics.WebhooksTotal.WithLabelValues("accio", "error").Inc()
		return err
	}

	verification, err := s.verifRepo.FindByPurchaseID(ctx, report.PurchaseID)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			// Report without a linked verification; the stored result is all
			// there is to keep.
			metrics.WebhooksTotal.WithLabelValues("accio", "ok").Inc()
			return nil
		}
		metrics.WebhooksTotal.WithLabelValues("accio", "error").Inc()
		return err
	}

	var transitionErr error
	eventType := events.EventCompleted
	if callback.Status == interfaces.ScreeningResultCompleted {
		transitionErr = verification.MarkCompleted(callback.EvictionCount, callback.CriminalRecordCount)
	} else {
		eventType = events.EventFailed
		transitionErr = verification.MarkFailed("screening vendor reported failure")
	}
	if transitionErr != nil {
		// Replayed or out-of-order callback; the record already moved on.
		s.logger.Info("dropping stale screening callback",
			zap.String("order_id", callback.OrderID),
			zap.String("status", string(verification.Status)),
		)
		metrics.WebhooksTotal.WithLabelValues("accio", "ok").Inc()
		return nil
	}
	if err := s.verifRepo.Update(ctx, verification); err != nil {
		metrics.WebhooksTotal.WithLabelValues("accio", "error").Inc()
		return err
	}
	metrics.VerificationsByStatus.WithLabelValues(string(verification.Status)).Inc()

	s.audit.record(ctx, verification.UserID.String(), "webhook.screening.result", "verification", verification.ID.String(), entity.AuditLogStatusSuccess, map[string]interface{}{
		"order_id": callback.OrderID,
		"status":   string(verification.Status),
	})

	if pubErr := s.publisher.Publish(ctx, eventType, verification.ID.String(), events.CompletionEventData{
		UserID:         verification.UserID.String(),
		VerificationID: verification.ID.String(),
		Status:         string(verification.Status),
		ValidUntil:     verification.ValidUntil,
	}); pubErr != nil {
		s.logger.Error("failed to publish verification result event", zap.Error(pubErr))
	}
	return nil
}

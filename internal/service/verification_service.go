// File: internal/service/verification_service.go
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
	"github.com/matchbook-rentals/verification-service/internal/domain/interfaces"
	"github.com/matchbook-rentals/verification-service/internal/domain/models"
	"github.com/matchbook-rentals/verification-service/internal/domain/repository"
	"github.com/matchbook-rentals/verification-service/internal/events"
	"github.com/matchbook-rentals/verification-service/internal/utils/metrics"
)

// purchaseTypesForVerification are the purchase types redeemable for a
// verification run.
var purchaseTypesForVerification = []entity.PurchaseType{
	entity.PurchaseTypeVerification,
	entity.PurchaseTypeBackgroundCheck,
}

// VerificationService owns the verification lifecycle: the orchestrated
// submit run, finalize, status reads and the dev-only reset.
type VerificationService struct {
	gateway          interfaces.PaymentGateway
	credit           interfaces.CreditProvider
	screening        interfaces.ScreeningProvider
	verifRepo        repository.VerificationRepository
	purchaseRepo     repository.PurchaseRepository
	creditReportRepo repository.CreditReportRepository
	bgsReportRepo    repository.BGSReportRepository
	publisher        events.Publisher
	audit            *auditor
	logger           *zap.Logger
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(
	gateway interfaces.PaymentGateway,
	credit interfaces.CreditProvider,
	screening interfaces.ScreeningProvider,
	verifRepo repository.VerificationRepository,
	purchaseRepo repository.PurchaseRepository,
	creditReportRepo repository.CreditReportRepository,
	bgsReportRepo repository.BGSReportRepository,
	publisher events.Publisher,
	auditRepo repository.AuditLogRepository,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		gateway:          gateway,
		credit:           credit,
		screening:        screening,
		verifRepo:        verifRepo,
		purchaseRepo:     purchaseRepo,
		creditReportRepo: creditReportRepo,
		bgsReportRepo:    bgsReportRepo,
		publisher:        publisher,
		audit:            newAuditor(auditRepo, logger),
		logger:           logger,
	}
}

// creditBucketFromBand maps the vendor's band naming onto the coarse buckets
// exposed to hosts.
func creditBucketFromBand(band string) entity.CreditBucket {
	switch strings.ToLower(band) {
	case "exceptional", "excellent":
		return entity.CreditBucketExceptional
	case "good", "very good":
		return entity.CreditBucketGood
	case "fair":
		return entity.CreditBucketFair
	default:
		return entity.CreditBucketLow
	}
}

// Submit runs the full verification pipeline: redeem an unredeemed purchase,
// soft credit pull, capture the fee hold and place the background-screening
// order. The screening result itself arrives later on the vendor webhook.
func (s *VerificationService) Submit(ctx context.Context, auth models.AuthContext, req models.SubmitRequest) (*models.SubmitResult, error) {
	purchase, err := s.purchaseRepo.FindLatestUnredeemed(ctx, auth.UserID, purchaseTypesForVerification)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return nil, domainErrors.ErrNoUnredeemedPurchase
		}
		return nil, err
	}

	verification, err := s.ensureActiveVerification(ctx, auth.UserID)
	if err != nil {
		return nil, err
	}

	creditResult, err := s.credit.Pull(ctx, interfaces.CreditApplicant{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		SSN:       req.SSN,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
	})
	if err != nil {
		metrics.VendorCallsTotal.WithLabelValues("isoftpull", "pull", "error").Inc()
		s.logger.Error("credit pull failed", zap.String("user_id", auth.UserID.String()), zap.Error(err))
		return nil, domainErrors.ErrVendorUnavailable
	}
	metrics.VendorCallsTotal.WithLabelValues("isoftpull", "pull", "ok").Inc()

	bucket := creditBucketFromBand(creditResult.Band)
	verification.SetCreditResult(creditResult.Passed, bucket)

	report := &entity.CreditReport{
		ID:             uuid.New(),
		VerificationID: verification.ID,
		ScoreBand:      bucket,
		Payload:        creditResult.Payload,
	}
	if err := s.creditReportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	if !creditResult.Passed {
		return s.failSubmit(ctx, auth, verification, "credit check below minimum requirements")
	}

	// Capture only while the purchase is still pending. Finalize may have
	// settled the hold already; re-capturing a settled intent makes the
	// gateway reject the whole run after the credit pull was paid for.
	if purchase.Status == entity.PurchaseStatusPending {
		paymentIntentID := req.PaymentIntentID
		if paymentIntentID == "" {
			paymentIntentID = purchase.PaymentIntentID
		}
		captured, err := s.gateway.CapturePaymentIntent(ctx, paymentIntentID)
		if err != nil {
			metrics.VendorCallsTotal.WithLabelValues("stripe", "capture_payment_intent", "error").Inc()
			s.logger.Error("failed to capture verification fee",
				zap.String("payment_intent_id", paymentIntentID),
				zap.Error(err),
			)
			return nil, domainErrors.ErrVendorUnavailable
		}
		metrics.VendorCallsTotal.WithLabelValues("stripe", "capture_payment_intent", "ok").Inc()
		verification.MarkCaptured(nowUTC())

		purchase.Status = entity.PurchaseStatusCompleted
		if err := s.purchaseRepo.Update(ctx, purchase); err != nil {
			return nil, err
		}

		if pubErr := s.publisher.Publish(ctx, events.EventPaymentCaptured, auth.UserID.String(), events.PaymentEventData{
			UserID:          auth.UserID.String(),
			PaymentIntentID: captured.ID,
			Amount:          captured.Amount,
			Currency:        captured.Currency,
		}); pubErr != nil {
			s.logger.Error("failed to publish payment captured event", zap.Error(pubErr))
		}
	}

	orderID, err := s.screening.SubmitOrder(ctx, interfaces.ScreeningOrder{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		SSN:       req.SSN,
		DOB:       req.DOB,
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
	})
	if err != nil {
		metrics.VendorCallsTotal.WithLabelValues("accio", "submit_order", "error").Inc()
		s.logger.Error("failed to place screening order", zap.String("user_id", auth.UserID.String()), zap.Error(err))
		return nil, domainErrors.ErrVendorUnavailable
	}
	metrics.VendorCallsTotal.WithLabelValues("accio", "submit_order", "ok").Inc()

	bgsReport := &entity.BGSReport{
		ID:         uuid.New(),
		PurchaseID: purchase.ID,
		UserID:     auth.UserID,
		OrderID:    orderID,
		Status:     entity.BGSReportPending,
	}
	if err := s.bgsReportRepo.Create(ctx, bgsReport); err != nil {
		return nil, err
	}
	if err := s.purchaseRepo.MarkRedeemed(ctx, purchase.ID, orderID); err != nil {
		return nil, err
	}

	verification.PurchaseID = &purchase.ID
	if err := verification.MarkProcessingBGS(nowUTC()); err != nil {
		return nil, err
	}
	if err := s.verifRepo.Update(ctx, verification); err != nil {
		return nil, err
	}
	metrics.VerificationsByStatus.WithLabelValues(string(entity.StatusProcessingBGS)).Inc()

	s.audit.record(ctx, auth.UserID.String(), "verification.submit", "verification", verification.ID.String(), entity.AuditLogStatusSuccess, map[string]interface{}{
		"order_id":    orderID,
		"purchase_id": purchase.ID.String(),
	})

	if pubErr := s.publisher.Publish(ctx, events.EventScreeningStarted, verification.ID.String(), events.ScreeningEventData{
		UserID:         auth.UserID.String(),
		VerificationID: verification.ID.String(),
		OrderID:        orderID,
	}); pubErr != nil {
		s.logger.Error("failed to publish screening started event", zap.Error(pubErr))
	}

	return &models.SubmitResult{
		Success:        true,
		Status:         string(verification.Status),
		VerificationID: verification.ID.String(),
		CreditBucket:   string(bucket),
		OrderNumber:    orderID,
		Message:        "background screening in progress",
	}, nil
}

func (s *VerificationService) failSubmit(ctx context.Context, auth models.AuthContext, verification *entity.Verification, note string) (*models.SubmitResult, error) {
	if err := verification.MarkFailed(note); err != nil {
		return nil, err
	}
	if err := s.verifRepo.Update(ctx, verification); err != nil {
		return nil, err
	}
	metrics.VerificationsByStatus.WithLabelValues(string(entity.StatusFailed)).Inc()

	s.audit.record(ctx, auth.UserID.String(), "verification.submit", "verification", verification.ID.String(), entity.AuditLogStatusFailure, map[string]interface{}{
		"reason": note,
	})
	if pubErr := s.publisher.Publish(ctx, events.EventFailed, verification.ID.String(), events.CompletionEventData{
		UserID:         auth.UserID.String(),
		VerificationID: verification.ID.String(),
		Status:         string(verification.Status),
	}); pubErr != nil {
		s.logger.Error("failed to publish verification failed event", zap.Error(pubErr))
	}

	return &models.SubmitResult{
		Success:        false,
		Status:         string(verification.Status),
		VerificationID: verification.ID.String(),
		Message:        "verification could not be completed",
	}, nil
}

// ensureActiveVerification returns the caller's latest non-terminal record,
// creating a fresh PENDING one when none is usable.
func (s *VerificationService) ensureActiveVerification(ctx context.Context, userID uuid.UUID) (*entity.Verification, error) {
	current, err := s.verifRepo.FindLatestByUserID(ctx, userID)
	if err != nil && !domainErrors.IsNotFound(err) {
		return nil, err
	}
	if current != nil {
		switch current.Status {
		case entity.StatusPending, entity.StatusProcessingBGS:
			return current, nil
		case entity.StatusNotStarted:
			if err := current.StartPending(); err != nil {
				return nil, err
			}
			if err := s.verifRepo.Update(ctx, current); err != nil {
				return nil, err
			}
			return current, nil
		}
	}

	fresh := entity.NewVerification(userID)
	if err := fresh.StartPending(); err != nil {
		return nil, err
	}
	if err := s.verifRepo.Create(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Finalize captures the outstanding fee hold (when one is still pending) and
// advances the caller's verification into the screening stage.
func (s *VerificationService) Finalize(ctx context.Context, auth models.AuthContext) (*models.FinalizeResult, error) {
	verification, err := s.verifRepo.FindLatestByUserID(ctx, auth.UserID)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return nil, domainErrors.ErrVerificationNotFound
		}
		return nil, err
	}

	purchase, err := s.purchaseRepo.FindLatestUnredeemed(ctx, auth.UserID, purchaseTypesForVerification)
	if err != nil && !domainErrors.IsNotFound(err) {
		return nil, err
	}
	if purchase != nil && purchase.Status == entity.PurchaseStatusPending {
		if _, err := s.gateway.CapturePaymentIntent(ctx, purchase.PaymentIntentID); err != nil {
			metrics.VendorCallsTotal.WithLabelValues("stripe", "capture_payment_intent", "error").Inc()
			s.logger.Error("failed to capture verification fee",
				zap.String("payment_intent_id", purchase.PaymentIntentID),
				zap.Error(err),
			)
			return nil, domainErrors.ErrVendorUnavailable
		}
		metrics.VendorCallsTotal.WithLabelValues("stripe", "capture_payment_intent", "ok").Inc()
		verification.MarkCaptured(nowUTC())

		purchase.Status = entity.PurchaseStatusCompleted
		if err := s.purchaseRepo.Update(ctx, purchase); err != nil {
			return nil, err
		}
		verification.PurchaseID = &purchase.ID
	}

	if verification.Status != entity.StatusProcessingBGS {
		if err := verification.MarkProcessingBGS(nowUTC()); err != nil {
			return nil, err
		}
		metrics.VerificationsByStatus.WithLabelValues(string(entity.StatusProcessingBGS)).Inc()
	}
	if err := s.verifRepo.Update(ctx, verification); err != nil {
		return nil, err
	}

	s.audit.record(ctx, auth.UserID.String(), "verification.finalize", "verification", verification.ID.String(), entity.AuditLogStatusSuccess, nil)

	projection, err := s.project(ctx, verification)
	if err != nil {
		return nil, err
	}
	return &models.FinalizeResult{
		Success:      true,
		Verification: *projection,
	}, nil
}

// Status returns the caller's latest verification joined with its reports.
// Expiry is evaluated here, lazily: a record past its validity window is
// flipped to EXPIRED on read, never by a background sweep.
func (s *VerificationService) Status(ctx context.Context, auth models.AuthContext) (*models.VerificationProjection, error) {
	verification, err := s.verifRepo.FindLatestByUserID(ctx, auth.UserID)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			return nil, domainErrors.ErrVerificationNotFound
		}
		return nil, err
	}

	if verification.Status != entity.StatusExpired && verification.IsExpired(nowUTC()) {
		if err := verification.MarkExpired(); err != nil {
			return nil, err
		}
		if err := s.verifRepo.Update(ctx, verification); err != nil {
			return nil, err
		}
		metrics.VerificationsByStatus.WithLabelValues(string(entity.StatusExpired)).Inc()
	}

	return s.project(ctx, verification)
}

// project flattens a verification record and its latest credit and screening
// reports into the client-facing view.
func (s *VerificationService) project(ctx context.Context, v *entity.Verification) (*models.VerificationProjection, error) {
	out := &models.VerificationProjection{
		VerificationID:      v.ID.String(),
		Status:              string(v.Status),
		CreditStatus:        string(v.CreditStatus),
		EvictionStatus:      string(v.EvictionStatus),
		EvictionCount:       v.EvictionCount,
		CriminalStatus:      string(v.CriminalStatus),
		CriminalRecordCount: v.CriminalRecordCount,
		ScreeningDate:       v.ScreeningDate,
		ValidUntil:          v.ValidUntil,
		PaymentCapturedAt:   v.PaymentCapturedAt,
		PaymentCancelledAt:  v.PaymentCancelledAt,
	}
	if v.CreditBucket != nil {
		bucket := string(*v.CreditBucket)
		out.CreditBucket = &bucket
	}
	if v.PurchaseID != nil {
		purchaseID := v.PurchaseID.String()
		out.PurchaseID = &purchaseID
	}

	creditReport, err := s.creditReportRepo.FindLatestByVerificationID(ctx, v.ID)
	if err != nil && !domainErrors.IsNotFound(err) {
		return nil, err
	}
	if creditReport != nil {
		checkedAt := creditReport.CreatedAt
		out.CreditCheckedAt = &checkedAt
	}

	report, err := s.bgsReportRepo.FindLatestByUserID(ctx, v.UserID)
	if err != nil && !domainErrors.IsNotFound(err) {
		return nil, err
	}
	if report != nil {
		out.OrderID = &report.OrderID
	}
	return out, nil
}

// Reset wipes the caller's verification state. Exposed only when dev
// endpoints are enabled; never mounted in production.
func (s *VerificationService) Reset(ctx context.Context, auth models.AuthContext) error {
	verifDeleted, err := s.verifRepo.DeleteByUserID(ctx, auth.UserID)
	if err != nil {
		return err
	}
	purchasesDeleted, err := s.purchaseRepo.DeleteByUserID(ctx, auth.UserID)
	if err != nil {
		return err
	}

	s.audit.record(ctx, auth.UserID.String(), "verification.reset", "user", auth.UserID.String(), entity.AuditLogStatusSuccess, map[string]interface{}{
		"verifications_deleted": verifDeleted,
		"purchases_deleted":     purchasesDeleted,
	})
	return nil
}

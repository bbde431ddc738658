// File: internal/service/payment_service.go
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/config"
	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
	"github.com/matchbook-rentals/verification-service/internal/domain/interfaces"
	"github.com/matchbook-rentals/verification-service/internal/domain/models"
	"github.com/matchbook-rentals/verification-service/internal/domain/repository"
	"github.com/matchbook-rentals/verification-service/internal/events"
	"github.com/matchbook-rentals/verification-service/internal/utils/metrics"
)

// Metadata keys stamped onto every payment intent this service creates.
// Ownership checks and webhook routing depend on them.
const (
	metadataKeyType   = "type"
	metadataKeyUserID = "userId"
)

// SetupSessionStore keeps the session-id to setup-intent binding handed to
// clients during card setup.
type SetupSessionStore interface {
	Put(ctx context.Context, sessionID, setupIntentID string) error
	Get(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

// PaymentService orchestrates the verification fee flow: card setup, manual
// capture charge, status polling and hold release.
type PaymentService struct {
	gateway       interfaces.PaymentGateway
	userRepo      repository.UserRepository
	purchaseRepo  repository.PurchaseRepository
	verifRepo     repository.VerificationRepository
	sessionCache  SetupSessionStore
	publisher     events.Publisher
	audit         *auditor
	feeAmount     int64
	currency      string
	logger        *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	gateway interfaces.PaymentGateway,
	userRepo repository.UserRepository,
	purchaseRepo repository.PurchaseRepository,
	verifRepo repository.VerificationRepository,
	sessionCache SetupSessionStore,
	publisher events.Publisher,
	auditRepo repository.AuditLogRepository,
	cfg config.PaymentConfig,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:      gateway,
		userRepo:     userRepo,
		purchaseRepo: purchaseRepo,
		verifRepo:    verifRepo,
		sessionCache: sessionCache,
		publisher:    publisher,
		audit:        newAuditor(auditRepo, logger),
		feeAmount:    cfg.VerificationFeeAmount,
		currency:     cfg.Currency,
		logger:       logger,
	}
}

// ensureCustomer resolves the gateway customer id for the caller, creating
// and persisting one on first use.
func (s *PaymentService) ensureCustomer(ctx context.Context, auth models.AuthContext) (string, error) {
	user, err := s.userRepo.FindByID(ctx, auth.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	customerID, err := s.gateway.CreateCustomer(ctx, user.Email, user.ID.String())
	if err != nil {
		metrics.VendorCallsTotal.WithLabelValues("stripe", "create_customer", "error").Inc()
		s.logger.Error("failed to create gateway customer", zap.String("user_id", user.ID.String()), zap.Error(err))
		return "", domainErrors.ErrVendorUnavailable
	}
	metrics.VendorCallsTotal.WithLabelValues("stripe", "create_customer", "ok").Inc()

	if err := s.userRepo.SetStripeCustomerID(ctx, user.ID, customerID); err != nil {
		return "", fmt.Errorf("failed to persist customer id: %w", err)
	}
	return customerID, nil
}

// CreateSetupIntent starts a card-save session. The returned session id maps
// back to the gateway setup intent through redis for the client's later
// confirmation flow.
func (s *PaymentService) CreateSetupIntent(ctx context.Context, auth models.AuthContext) (*models.SetupIntentResult, error) {
	customerID, err := s.ensureCustomer(ctx, auth)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateCardSetupIntent(ctx, customerID)
	if err != nil {
		metrics.VendorCallsTotal.WithLabelValues("stripe", "create_setup_intent", "error").Inc()
		s.logger.Error("failed to create setup intent", zap.String("user_id", auth.UserID.String()), zap.Error(err))
		return nil, domainErrors.ErrVendorUnavailable
	}
	metrics.VendorCallsTotal.WithLabelValues("stripe", "create_setup_intent", "ok").Inc()

	sessionID := uuid.New().String()
	if err := s.sessionCache.Put(ctx, sessionID, intent.ID); err != nil {
		return nil, err
	}

	return &models.SetupIntentResult{
		ClientSecret:  intent.ClientSecret,
		SetupIntentID: intent.ID,
		SessionID:     sessionID,
	}, nil
}

// ChargePaymentMethod places an authorization hold for the verification fee
// against a saved payment method. Capture happens later, at finalize. A
// PENDING verification record is ensured here so the rest of the pipeline
// always has a row to advance. When the client passes the session id from
// setup-intent creation it is resolved and consumed here; a session redis no
// longer knows means the setup flow went stale and must be restarted.
func (s *PaymentService) ChargePaymentMethod(ctx context.Context, auth models.AuthContext, req models.ChargeRequest) (*models.ChargeResult, error) {
	customerID, err := s.ensureCustomer(ctx, auth)
	if err != nil {
		return nil, err
	}

	var setupIntentID string
	if req.SessionID != "" {
		setupIntentID, err = s.sessionCache.Get(ctx, req.SessionID)
		if err != nil {
			if domainErrors.IsNotFound(err) {
				return nil, domainErrors.ErrSetupSessionExpired
			}
			return nil, err
		}
	}

	method, err := s.gateway.RetrievePaymentMethod(ctx, req.PaymentMethodID)
	if err != nil {
		metrics.VendorCallsTotal.WithLabelValues("stripe", "retrieve_payment_method", "error").Inc()
		s.logger.Error("failed to retrieve payment method", zap.Error(err))
		return nil, domainErrors.ErrVendorUnavailable
	}
	if method.CustomerID != "" && method.CustomerID != customerID {
		return nil, domainErrors.ErrPaymentNotOwned
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, interfaces.ChargeParams{
		CustomerID:      customerID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          s.feeAmount,
		Currency:        s.currency,
		Metadata: map[string]string{
			metadataKeyType:   string(entity.PurchaseTypeVerification),
			metadataKeyUserID: auth.UserID.String(),
		},
	})
	if err != nil {
		metrics.VendorCallsTotal.WithLabelValues("stripe", "create_payment_intent", "error").Inc()
		s.logger.Error("failed to create payment intent", zap.String("user_id", auth.UserID.String()), zap.Error(err))
		return nil, domainErrors.ErrVendorUnavailable
	}
	metrics.VendorCallsTotal.WithLabelValues("stripe", "create_payment_intent", "ok").Inc()

	if err := s.ensurePendingVerification(ctx, auth.UserID); err != nil {
		return nil, err
	}

	if req.SessionID != "" {
		// One-shot: the session served its purpose once the hold exists.
		if err := s.sessionCache.Delete(ctx, req.SessionID); err != nil {
			s.logger.Warn("failed to drop setup session",
				zap.String("session_id", req.SessionID),
				zap.Error(err),
			)
		}
	}

	details := map[string]interface{}{
		"amount":   s.feeAmount,
		"currency": s.currency,
	}
	if setupIntentID != "" {
		details["setup_intent_id"] = setupIntentID
	}
	s.audit.record(ctx, auth.UserID.String(), "payment.charge", "payment_intent", intent.ID, entity.AuditLogStatusSuccess, details)

	return &models.ChargeResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

// ensurePendingVerification guarantees the caller has an active verification
// record in PENDING. Terminal records are replaced with a fresh attempt.
func (s *PaymentService) ensurePendingVerification(ctx context.Context, userID uuid.UUID) error {
	current, err := s.verifRepo.FindLatestByUserID(ctx, userID)
	if err != nil && !domainErrors.IsNotFound(err) {
		return err
	}

	if current != nil {
		switch current.Status {
		case entity.StatusPending, entity.StatusProcessingBGS:
			return nil
		case entity.StatusNotStarted:
			if err := current.StartPending(); err != nil {
				return err
			}
			return s.verifRepo.Update(ctx, current)
		}
	}

	fresh := entity.NewVerification(userID)
	if err := fresh.StartPending(); err != nil {
		return err
	}
	if err := s.verifRepo.Create(ctx, fresh); err != nil {
		return err
	}
	metrics.VerificationsByStatus.WithLabelValues(string(entity.StatusPending)).Inc()
	return nil
}

// GetPaymentStatus polls the gateway for the intent's state and lazily
// records the purchase the first time the intent is seen authorized, settling
// or settled. ACH-style methods report "processing" for days before settling;
// that still counts as a usable purchase. The UNIQUE payment_intent_id
// constraint makes concurrent polls safe.
func (s *PaymentService) GetPaymentStatus(ctx context.Context, auth models.AuthContext, paymentIntentID string) (*models.PaymentStatusResult, error) {
	intent, err := s.retrieveOwnedIntent(ctx, auth, paymentIntentID)
	if err != nil {
		return nil, err
	}

	purchaseCreated := false
	switch intent.Status {
	case interfaces.PaymentIntentRequiresCapture, interfaces.PaymentIntentProcessing, interfaces.PaymentIntentSucceeded:
		status := entity.PurchaseStatusPending
		if intent.Status == interfaces.PaymentIntentSucceeded {
			status = entity.PurchaseStatusCompleted
		}
		purchase := entity.NewVerificationPurchase(auth.UserID, intent.ID, intent.Amount, status)
		inserted, err := s.purchaseRepo.CreateIfAbsent(ctx, purchase)
		if err != nil {
			return nil, err
		}
		if inserted {
			purchaseCreated = true
			metrics.PurchasesCreatedTotal.Inc()
			if pubErr := s.publisher.Publish(ctx, events.EventPaymentAuthorized, auth.UserID.String(), events.PaymentEventData{
				UserID:          auth.UserID.String(),
				PaymentIntentID: intent.ID,
				Amount:          intent.Amount,
				Currency:        intent.Currency,
			}); pubErr != nil {
				s.logger.Error("failed to publish payment authorized event", zap.Error(pubErr))
			}
		}
	}

	return &models.PaymentStatusResult{
		Status:          intent.Status,
		PaymentIntentID: intent.ID,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
		PurchaseCreated: purchaseCreated,
	}, nil
}

// CancelPayment releases the card hold before capture. Settled intents are
// rejected; the caller is told to contact support instead.
func (s *PaymentService) CancelPayment(ctx context.Context, auth models.AuthContext, req models.CancelPaymentRequest) (*models.CancelPaymentResult, error) {
	intent, err := s.retrieveOwnedIntent(ctx, auth, req.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	if intent.Status == interfaces.PaymentIntentSucceeded {
		s.audit.record(ctx, auth.UserID.String(), "payment.cancel", "payment_intent", intent.ID, entity.AuditLogStatusFailure, map[string]interface{}{
			"reason": "already captured",
		})
		return nil, domainErrors.ErrPaymentNotCancellable
	}
	if intent.Status == interfaces.PaymentIntentCanceled {
		return &models.CancelPaymentResult{
			Success: true,
			Status:  intent.Status,
			Message: "payment was already cancelled",
		}, nil
	}

	cancelled, err := s.gateway.CancelPaymentIntent(ctx, intent.ID)
	if err != nil {
		metrics.VendorCallsTotal.WithLabelValues("stripe", "cancel_payment_intent", "error").Inc()
		s.logger.Error("failed to cancel payment intent", zap.String("payment_intent_id", intent.ID), zap.Error(err))
		return nil, domainErrors.ErrVendorUnavailable
	}
	metrics.VendorCallsTotal.WithLabelValues("stripe", "cancel_payment_intent", "ok").Inc()

	if err := s.applyCancellation(ctx, auth.UserID, intent.ID); err != nil {
		return nil, err
	}

	s.audit.record(ctx, auth.UserID.String(), "payment.cancel", "payment_intent", intent.ID, entity.AuditLogStatusSuccess, nil)

	if pubErr := s.publisher.Publish(ctx, events.EventPaymentCancelled, auth.UserID.String(), events.PaymentEventData{
		UserID:          auth.UserID.String(),
		PaymentIntentID: intent.ID,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
	}); pubErr != nil {
		s.logger.Error("failed to publish payment cancelled event", zap.Error(pubErr))
	}

	return &models.CancelPaymentResult{
		Success: true,
		Status:  cancelled.Status,
		Message: "authorization hold released",
	}, nil
}

// applyCancellation synchronizes local state after a hold release: the
// purchase (if already recorded) flips to cancelled and the active
// verification record fails with its cancellation timestamps stamped.
func (s *PaymentService) applyCancellation(ctx context.Context, userID uuid.UUID, paymentIntentID string) error {
	purchase, err := s.purchaseRepo.FindByPaymentIntentID(ctx, paymentIntentID)
	if err != nil && !domainErrors.IsNotFound(err) {
		return err
	}
	if purchase != nil {
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
		// Already terminal; nothing to move.
		s.logger.Debug("skipping verification update on cancel",
			zap.String("verification_id", verification.ID.String()),
			zap.String("status", string(verification.Status)),
		)
		return nil
	}
	metrics.VerificationsByStatus.WithLabelValues(string(entity.StatusFailed)).Inc()
	return s.verifRepo.Update(ctx, verification)
}

// retrieveOwnedIntent loads the intent from the gateway and enforces that it
// was created by this service for the calling user.
func (s *PaymentService) retrieveOwnedIntent(ctx context.Context, auth models.AuthContext, paymentIntentID string) (*interfaces.PaymentIntent, error) {
	if paymentIntentID == "" {
		return nil, domainErrors.ErrInvalidRequest
	}

	intent, err := s.gateway.RetrievePaymentIntent(ctx, paymentIntentID)
	if err != nil {
		metrics.VendorCallsTotal.WithLabelValues("stripe", "retrieve_payment_intent", "error").Inc()
		s.logger.Error("failed to retrieve payment intent", zap.String("payment_intent_id", paymentIntentID), zap.Error(err))
		return nil, domainErrors.ErrPaymentNotFound
	}
	metrics.VendorCallsTotal.WithLabelValues("stripe", "retrieve_payment_intent", "ok").Inc()

	if intent.Metadata[metadataKeyUserID] != auth.UserID.String() {
		return nil, domainErrors.ErrPaymentNotOwned
	}
	return intent, nil
}

// File: internal/service/mocks_test.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
	"github.com/matchbook-rentals/verification-service/internal/domain/interfaces"
	"github.com/matchbook-rentals/verification-service/internal/domain/repository"
	"github.com/matchbook-rentals/verification-service/internal/events"
)

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCustomer(ctx context.Context, email string, userID string) (string, error) {
	args := m.Called(ctx, email, userID)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) CreateCardSetupIntent(ctx context.Context, customerID string) (*interfaces.SetupIntent, error) {
	args := m.Called(ctx, customerID)
	if si, ok := args.Get(0).(*interfaces.SetupIntent); ok {
		return si, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentGateway) RetrievePaymentMethod(ctx context.Context, paymentMethodID string) (*interfaces.PaymentMethod, error) {
	args := m.Called(ctx, paymentMethodID)
	if pm, ok := args.Get(0).(*interfaces.PaymentMethod); ok {
		return pm, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentGateway) CreatePaymentIntent(ctx context.Context, params interfaces.ChargeParams) (*interfaces.PaymentIntent, error) {
	args := m.Called(ctx, params)
	if pi, ok := args.Get(0).(*interfaces.PaymentIntent); ok {
		return pi, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentGateway) RetrievePaymentIntent(ctx context.Context, paymentIntentID string) (*interfaces.PaymentIntent, error) {
	args := m.Called(ctx, paymentIntentID)
	if pi, ok := args.Get(0).(*interfaces.PaymentIntent); ok {
		return pi, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentGateway) CapturePaymentIntent(ctx context.Context, paymentIntentID string) (*interfaces.PaymentIntent, error) {
	args := m.Called(ctx, paymentIntentID)
	if pi, ok := args.Get(0).(*interfaces.PaymentIntent); ok {
		return pi, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentGateway) CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*interfaces.PaymentIntent, error) {
	args := m.Called(ctx, paymentIntentID)
	if pi, ok := args.Get(0).(*interfaces.PaymentIntent); ok {
		return pi, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentGateway) ParseWebhookEvent(payload []byte, signatureHeader string) (*interfaces.WebhookEvent, error) {
	args := m.Called(payload, signatureHeader)
	if ev, ok := args.Get(0).(*interfaces.WebhookEvent); ok {
		return ev, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ interfaces.PaymentGateway = (*MockPaymentGateway)(nil)

type MockScreeningProvider struct {
	mock.Mock
}

func (m *MockScreeningProvider) SubmitOrder(ctx context.Context, order interfaces.ScreeningOrder) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

func (m *MockScreeningProvider) ValidSignature(payload []byte, signatureHeader string) bool {
	args := m.Called(payload, signatureHeader)
	return args.Bool(0)
}

func (m *MockScreeningProvider) ParseCallback(payload []byte) (*interfaces.ScreeningCallback, error) {
	args := m.Called(payload)
	if cb, ok := args.Get(0).(*interfaces.ScreeningCallback); ok {
		return cb, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ interfaces.ScreeningProvider = (*MockScreeningProvider)(nil)

type MockCreditProvider struct {
	mock.Mock
}

func (m *MockCreditProvider) Pull(ctx context.Context, applicant interfaces.CreditApplicant) (*interfaces.CreditResult, error) {
	args := m.Called(ctx, applicant)
	if res, ok := args.Get(0).(*interfaces.CreditResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ interfaces.CreditProvider = (*MockCreditProvider)(nil)

type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Create(ctx context.Context, v *entity.Verification) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVerificationRepository) Update(ctx context.Context, v *entity.Verification) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVerificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Verification, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*entity.Verification); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationRepository) FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*entity.Verification, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).(*entity.Verification); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationRepository) FindByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*entity.Verification, error) {
	args := m.Called(ctx, purchaseID)
	if v, ok := args.Get(0).(*entity.Verification); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVerificationRepository) DeleteStaleNotStarted(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

var _ repository.VerificationRepository = (*MockVerificationRepository)(nil)

type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) CreateIfAbsent(ctx context.Context, p *entity.Purchase) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) Update(ctx context.Context, p *entity.Purchase) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPurchaseRepository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*entity.Purchase, error) {
	args := m.Called(ctx, paymentIntentID)
	if p, ok := args.Get(0).(*entity.Purchase); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPurchaseRepository) FindLatestUnredeemed(ctx context.Context, userID uuid.UUID, types []entity.PurchaseType) (*entity.Purchase, error) {
	args := m.Called(ctx, userID, types)
	if p, ok := args.Get(0).(*entity.Purchase); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPurchaseRepository) MarkRedeemed(ctx context.Context, id uuid.UUID, orderID string) error {
	return m.Called(ctx, id, orderID).Error(0)
}

func (m *MockPurchaseRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

var _ repository.PurchaseRepository = (*MockPurchaseRepository)(nil)

type MockCreditReportRepository struct {
	mock.Mock
}

func (m *MockCreditReportRepository) Create(ctx context.Context, r *entity.CreditReport) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockCreditReportRepository) FindLatestByVerificationID(ctx context.Context, verificationID uuid.UUID) (*entity.CreditReport, error) {
	args := m.Called(ctx, verificationID)
	if r, ok := args.Get(0).(*entity.CreditReport); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repository.CreditReportRepository = (*MockCreditReportRepository)(nil)

type MockBGSReportRepository struct {
	mock.Mock
}

func (m *MockBGSReportRepository) Create(ctx context.Context, r *entity.BGSReport) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockBGSReportRepository) Update(ctx context.Context, r *entity.BGSReport) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockBGSReportRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.BGSReport, error) {
	args := m.Called(ctx, orderID)
	if r, ok := args.Get(0).(*entity.BGSReport); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBGSReportRepository) FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*entity.BGSReport, error) {
	args := m.Called(ctx, userID)
	if r, ok := args.Get(0).(*entity.BGSReport); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repository.BGSReportRepository = (*MockBGSReportRepository)(nil)

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Create(ctx context.Context, e *entity.AuditLog) error {
	return m.Called(ctx, e).Error(0)
}

var _ repository.AuditLogRepository = (*MockAuditLogRepository)(nil)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*entity.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	return m.Called(ctx, id, customerID).Error(0)
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

type MockSetupSessionStore struct {
	mock.Mock
}

func (m *MockSetupSessionStore) Put(ctx context.Context, sessionID, setupIntentID string) error {
	return m.Called(ctx, sessionID, setupIntentID).Error(0)
}

func (m *MockSetupSessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (m *MockSetupSessionStore) Delete(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

var _ SetupSessionStore = (*MockSetupSessionStore)(nil)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType events.EventType, subject string, data interface{}) error {
	return m.Called(ctx, eventType, subject, data).Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

var _ events.Publisher = (*MockPublisher)(nil)

// File: internal/domain/interfaces/payment_gateway.go
package interfaces

import "context"

// Payment intent states this service reacts to. Values mirror the gateway's
// wire statuses.
const (
	PaymentIntentRequiresCapture = "requires_capture"
	PaymentIntentSucceeded       = "succeeded"
	PaymentIntentProcessing      = "processing"
	PaymentIntentCanceled        = "canceled"
)

// SetupIntent is the gateway object authorizing a card save for later
// off-session use.
type SetupIntent struct {
	ID           string
	ClientSecret string
	CustomerID   string
}

// PaymentIntent mirrors the vendor-owned payment attempt; only fields this
// service consumes are carried.
type PaymentIntent struct {
	ID              string
	ClientSecret    string
	Status          string
	Amount          int64
	Currency        string
	CustomerID      string
	PaymentMethodID string
	Metadata        map[string]string
}

// PaymentMethod is a saved card handle with its owning customer.
type PaymentMethod struct {
	ID         string
	CustomerID string
}

// ChargeParams creates a manually-captured payment intent against a saved
// payment method.
type ChargeParams struct {
	CustomerID      string
	PaymentMethodID string
	Amount          int64
	Currency        string
	Metadata        map[string]string
}

// WebhookEvent is a verified gateway callback.
type WebhookEvent struct {
	ID            string
	Type          string
	PaymentIntent *PaymentIntent
}

// PaymentGateway is the narrow seam in front of the payment vendor SDK so the
// orchestration logic is testable without network calls.
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, email string, userID string) (string, error)
	CreateCardSetupIntent(ctx context.Context, customerID string) (*SetupIntent, error)
	RetrievePaymentMethod(ctx context.Context, paymentMethodID string) (*PaymentMethod, error)
	CreatePaymentIntent(ctx context.Context, params ChargeParams) (*PaymentIntent, error)
	RetrievePaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)
	CapturePaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)
	// ParseWebhookEvent verifies the signature header against the raw body and
	// decodes the event. Returns domain ErrSignatureInvalid on mismatch.
	ParseWebhookEvent(payload []byte, signatureHeader string) (*WebhookEvent, error)
}

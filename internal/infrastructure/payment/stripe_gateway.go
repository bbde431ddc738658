// File: internal/infrastructure/payment/stripe_gateway.go
package payment

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v76"
	stripeclient "github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
	"github.com/matchbook-rentals/verification-service/internal/domain/interfaces"
)

// StripeGateway implements interfaces.PaymentGateway on the Stripe SDK.
type StripeGateway struct {
	api           *stripeclient.API
	webhookSecret string
	logger        *zap.Logger
}

// NewStripeGateway creates a gateway bound to the given secret key.
func NewStripeGateway(secretKey, webhookSecret string, logger *zap.Logger) *StripeGateway {
	api := &stripeclient.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// CreateCustomer creates a gateway customer tagged with the local user id.
func (g *StripeGateway) CreateCustomer(ctx context.Context, email string, userID string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)

	cust, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe create customer: %w", err)
	}
	return cust.ID, nil
}

// CreateCardSetupIntent creates a card-only setup intent scoped for
// off-session reuse so the saved method can be charged without the user
// present.
func (g *StripeGateway) CreateCardSetupIntent(ctx context.Context, customerID string) (*interfaces.SetupIntent, error) {
	params := &stripe.SetupIntentParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Usage:              stripe.String(string(stripe.SetupIntentUsageOffSession)),
	}
	params.Context = ctx

	si, err := g.api.SetupIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create setup intent: %w", err)
	}
	return &interfaces.SetupIntent{
		ID:           si.ID,
		ClientSecret: si.ClientSecret,
		CustomerID:   customerID,
	}, nil
}

// RetrievePaymentMethod fetches a saved payment method and its owning
// customer.
func (g *StripeGateway) RetrievePaymentMethod(ctx context.Context, paymentMethodID string) (*interfaces.PaymentMethod, error) {
	params := &stripe.PaymentMethodParams{}
	params.Context = ctx

	pm, err := g.api.PaymentMethods.Get(paymentMethodID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe retrieve payment method: %w", err)
	}
	method := &interfaces.PaymentMethod{ID: pm.ID}
	if pm.Customer != nil {
		method.CustomerID = pm.Customer.ID
	}
	return method, nil
}

// CreatePaymentIntent creates a manually-captured payment intent so funds are
// held but not moved until an explicit capture call.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, chargeParams interfaces.ChargeParams) (*interfaces.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(chargeParams.Amount),
		Currency:      stripe.String(chargeParams.Currency),
		Customer:      stripe.String(chargeParams.CustomerID),
		PaymentMethod: stripe.String(chargeParams.PaymentMethodID),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
	}
	params.Context = ctx
	for k, v := range chargeParams.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create payment intent: %w", err)
	}
	return fromStripePaymentIntent(pi), nil
}

// RetrievePaymentIntent fetches the current vendor state of an intent.
func (g *StripeGateway) RetrievePaymentIntent(ctx context.Context, paymentIntentID string) (*interfaces.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe retrieve payment intent: %w", err)
	}
	return fromStripePaymentIntent(pi), nil
}

// CapturePaymentIntent captures a previously authorized hold.
func (g *StripeGateway) CapturePaymentIntent(ctx context.Context, paymentIntentID string) (*interfaces.PaymentIntent, error) {
	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Capture(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe capture payment intent: %w", err)
	}
	return fromStripePaymentIntent(pi), nil
}

// CancelPaymentIntent releases the card hold without charging.
func (g *StripeGateway) CancelPaymentIntent(ctx context.Context, paymentIntentID string) (*interfaces.PaymentIntent, error) {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	pi, err := g.api.PaymentIntents.Cancel(paymentIntentID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe cancel payment intent: %w", err)
	}
	return fromStripePaymentIntent(pi), nil
}

// ParseWebhookEvent verifies the Stripe-Signature header over the raw body
// and decodes the payment intent payload for events this service handles.
func (g *StripeGateway) ParseWebhookEvent(payload []byte, signatureHeader string) (*interfaces.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrSignatureInvalid, err)
	}

	out := &interfaces.WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}
	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.amount_capturable_updated",
		"payment_intent.payment_failed", "payment_intent.canceled":
		var pi stripe.PaymentIntent
		if err := pi.UnmarshalJSON(event.Data.Raw); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent payload: %w", err)
		}
		out.PaymentIntent = fromStripePaymentIntent(&pi)
	default:
		// Unhandled types are surfaced to the caller for a log line only.
	}
	return out, nil
}

func fromStripePaymentIntent(pi *stripe.PaymentIntent) *interfaces.PaymentIntent {
	out := &interfaces.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
	if pi.Customer != nil {
		out.CustomerID = pi.Customer.ID
	}
	if pi.PaymentMethod != nil {
		out.PaymentMethodID = pi.PaymentMethod.ID
	}
	return out
}

var _ interfaces.PaymentGateway = (*StripeGateway)(nil)

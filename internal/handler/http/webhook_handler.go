// File: internal/handler/http/webhook_handler.go
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/service"
)

const (
	stripeSignatureHeader    = "Stripe-Signature"
	screeningSignatureHeader = "X-Screening-Signature"
)

// WebhookHandler receives vendor callbacks. Both endpoints are unauthenticated
// at the transport level; each body is verified against its vendor signature
// before anything is mutated.
type WebhookHandler struct {
	webhookService *service.WebhookService
	logger         *zap.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookService *service.WebhookService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		logger:         logger,
	}
}

// StripeWebhook handles POST /webhooks/stripe.
func (h *WebhookHandler) StripeWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, "unreadable body", "bad_request", h.logger)
		return
	}

	if err := h.webhookService.HandleStripeEvent(c.Request.Context(), payload, c.GetHeader(stripeSignatureHeader)); err != nil {
		HandleServiceError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, gin.H{"received": true})
}

// ScreeningWebhook handles POST /webhooks/screening.
func (h *WebhookHandler) ScreeningWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, "unreadable body", "bad_request", h.logger)
		return
	}

	if err := h.webhookService.HandleScreeningResult(c.Request.Context(), payload, c.GetHeader(screeningSignatureHeader)); err != nil {
		HandleServiceError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, gin.H{"received": true})
}

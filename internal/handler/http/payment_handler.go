// File: internal/handler/http/payment_handler.go
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/domain/models"
	"github.com/matchbook-rentals/verification-service/internal/handler/http/middleware"
	"github.com/matchbook-rentals/verification-service/internal/service"
)

// PaymentHandler exposes the verification fee payment endpoints.
type PaymentHandler struct {
	paymentService *service.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// CreateSetupIntent handles POST /verification/setup-intent.
func (h *PaymentHandler) CreateSetupIntent(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", h.logger)
		return
	}

	result, err := h.paymentService.CreateSetupIntent(c.Request.Context(), auth)
	if err != nil {
		HandleServiceError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, result)
}

// ChargePaymentMethod handles POST /verification/charge-payment-method. It
// places the manual capture hold for the verification fee.
func (h *PaymentHandler) ChargePaymentMethod(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", h.logger)
		return
	}

	var req models.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "paymentMethodId is required", "bad_request", h.logger)
		return
	}

	result, err := h.paymentService.ChargePaymentMethod(c.Request.Context(), auth, req)
	if err != nil {
		HandleServiceError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, result)
}

// GetPaymentStatus handles GET /verification/payment-status?paymentIntentId=.
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", h.logger)
		return
	}

	paymentIntentID := c.Query("paymentIntentId")
	if paymentIntentID == "" {
		RespondWithError(c, http.StatusBadRequest, "paymentIntentId is required", "bad_request", h.logger)
		return
	}

	result, err := h.paymentService.GetPaymentStatus(c.Request.Context(), auth, paymentIntentID)
	if err != nil {
		HandleServiceError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, result)
}

// CancelPayment handles POST /verification/cancel-payment. It releases the
// card hold before capture.
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", h.logger)
		return
	}

	var req models.CancelPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "paymentIntentId is required", "bad_request", h.logger)
		return
	}

	result, err := h.paymentService.CancelPayment(c.Request.Context(), auth, req)
	if err != nil {
		HandleServiceError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, result)
}

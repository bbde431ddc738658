// File: internal/handler/http/verification_handler.go
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/domain/models"
	"github.com/matchbook-rentals/verification-service/internal/handler/http/middleware"
	"github.com/matchbook-rentals/verification-service/internal/service"
)

// VerificationHandler exposes the verification lifecycle endpoints.
type VerificationHandler struct {
	verificationService *service.VerificationService
	logger              *zap.Logger
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(verificationService *service.VerificationService, logger *zap.Logger) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
		logger:              logger,
	}
}

// Submit handles POST /verification/submit. It runs the credit pull, captures
// the fee and places the background-screening order.
func (h *VerificationHandler) Submit(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", h.logger)
		return
	}

	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "missing required applicant fields", "bad_request", h.logger)
		return
	}

	result, err := h.verificationService.Submit(c.Request.Context(), auth, req)
	if err != nil {
		HandleServiceError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, result)
}

// Finalize handles POST /verification/finalize.
func (h *VerificationHandler) Finalize(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", h.logger)
		return
	}

	result, err := h.verificationService.Finalize(c.Request.Context(), auth)
	if err != nil {
		HandleServiceError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, result)
}

// Status handles GET /verification/status.
func (h *VerificationHandler) Status(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", h.logger)
		return
	}

	result, err := h.verificationService.Status(c.Request.Context(), auth)
	if err != nil {
		HandleServiceError(c, err, h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, result)
}

// Reset handles DELETE /verification/dev-reset. Mounted only when dev
// endpoints are enabled.
func (h *VerificationHandler) Reset(c *gin.Context) {
	auth, ok := middleware.AuthFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", h.logger)
		return
	}

	if err := h.verificationService.Reset(c.Request.Context(), auth); err != nil {
		HandleServiceError(c, err, h.logger)
		return
	}
	RespondWithMessage(c, http.StatusOK, "verification state reset")
}

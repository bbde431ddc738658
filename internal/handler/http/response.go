// File: internal/handler/http/response.go
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
)

// ResponseError is the error body shape for every API error.
type ResponseError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RespondWithError sends an error response and logs it.
func RespondWithError(c *gin.Context, statusCode int, message string, errorCode string, logger *zap.Logger) {
	logger.Error("API error response",
		zap.Int("status_code", statusCode),
		zap.String("error_message", message),
		zap.String("error_code", errorCode),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)

	c.JSON(statusCode, ResponseError{
		Error: message,
		Code:  errorCode,
	})
}

// RespondWithData sends a success response with only data.
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// RespondWithMessage sends a success response with only a message.
func RespondWithMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"message": message,
	})
}

// HandleServiceError maps domain errors onto HTTP responses. Vendor and
// internal detail stays in the logs; the client sees only the generic
// message for its error class.
func HandleServiceError(c *gin.Context, err error, logger *zap.Logger) {
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		RespondWithError(c, appErr.StatusCode, appErr.Message, appErr.Code, logger)
		return
	}

	switch {
	case domainErrors.IsBadRequest(err):
		RespondWithError(c, http.StatusBadRequest, err.Error(), "bad_request", logger)
	case domainErrors.IsUnauthorized(err):
		RespondWithError(c, http.StatusUnauthorized, "unauthorized", "unauthorized", logger)
	case domainErrors.IsForbidden(err):
		RespondWithError(c, http.StatusForbidden, err.Error(), "forbidden", logger)
	case domainErrors.IsNotFound(err):
		RespondWithError(c, http.StatusNotFound, err.Error(), "not_found", logger)
	case domainErrors.IsConflict(err):
		RespondWithError(c, http.StatusConflict, err.Error(), "conflict", logger)
	case errors.Is(err, domainErrors.ErrVendorUnavailable):
		logger.Error("vendor failure surfaced to client", zap.Error(err))
		RespondWithError(c, http.StatusBadGateway, "upstream service unavailable", "vendor_unavailable", logger)
	default:
		logger.Error("unhandled service error", zap.Error(err))
		RespondWithError(c, http.StatusInternalServerError, "internal server error", "internal_error", logger)
	}
}

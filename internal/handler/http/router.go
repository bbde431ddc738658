// File: internal/handler/http/router.go
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/config"
	"github.com/matchbook-rentals/verification-service/internal/handler/http/middleware"
)

// RouterDeps bundles everything the router mounts.
type RouterDeps struct {
	Config              *config.Config
	Logger              *zap.Logger
	PaymentHandler      *PaymentHandler
	VerificationHandler *VerificationHandler
	WebhookHandler      *WebhookHandler
	HealthHandler       *HealthHandler
}

// NewRouter builds the gin engine with all middleware and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.CorsMiddleware())
	if deps.Config.Metrics.Enabled {
		router.Use(middleware.MetricsMiddleware())
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.GET("/health", deps.HealthHandler.Health)
	router.GET("/ready", deps.HealthHandler.Ready)

	v1 := router.Group("/api/v1")

	// Vendor callbacks authenticate through payload signatures, not bearer
	// tokens.
	webhooks := v1.Group("/webhooks")
	{
		webhooks.POST("/stripe", deps.WebhookHandler.StripeWebhook)
		webhooks.POST("/screening", deps.WebhookHandler.ScreeningWebhook)
	}

	verification := v1.Group("/verification")
	verification.Use(middleware.AuthMiddleware(deps.Config.Auth, deps.Logger))
	{
		verification.POST("/setup-intent", deps.PaymentHandler.CreateSetupIntent)
		verification.POST("/charge-payment-method", deps.PaymentHandler.ChargePaymentMethod)
		verification.GET("/payment-status", deps.PaymentHandler.GetPaymentStatus)
		verification.POST("/cancel-payment", deps.PaymentHandler.CancelPayment)

		verification.POST("/submit", deps.VerificationHandler.Submit)
		verification.POST("/finalize", deps.VerificationHandler.Finalize)
		verification.GET("/status", deps.VerificationHandler.Status)
		if deps.Config.Server.DevEndpoints {
			verification.DELETE("/dev-reset", deps.VerificationHandler.Reset)
		}
	}

	return router
}

// File: internal/handler/http/webhook_handler_test.go
package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/config"
	"github.com/matchbook-rentals/verification-service/internal/infrastructure/payment"
	"github.com/matchbook-rentals/verification-service/internal/infrastructure/screening"
	"github.com/matchbook-rentals/verification-service/internal/service"
)

// newWebhookTestRouter wires real vendor adapters (with test secrets) behind
// the webhook routes so signature rejection is exercised end to end. The
// repositories are nil: a rejected webhook must never reach them.
func newWebhookTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	gateway := payment.NewStripeGateway("sk_test_x", "whsec_test", logger)
	screeningClient := screening.NewAccioClient(config.ScreeningConfig{
		BaseURL:       "http://unused",
		WebhookSecret: "hook-secret",
		Timeout:       time.Second,
	}, logger)

	webhookService := service.NewWebhookService(gateway, screeningClient, nil, nil, nil, nil, nil, logger)
	handler := NewWebhookHandler(webhookService, logger)

	router := gin.New()
	router.POST("/webhooks/stripe", handler.StripeWebhook)
	router.POST("/webhooks/screening", handler.ScreeningWebhook)
	return router
}

func TestStripeWebhook_InvalidSignatureRejected(t *testing.T) {
	router := newWebhookTestRouter(t)

	body := `{"id":"evt_1","type":"payment_intent.succeeded"}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=forged")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStripeWebhook_MissingSignatureRejected(t *testing.T) {
	router := newWebhookTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestScreeningWebhook_InvalidSignatureRejected(t *testing.T) {
	router := newWebhookTestRouter(t)

	body := `<XML><order_number>ORD-1</order_number><status>complete</status></XML>`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/screening", strings.NewReader(body))
	req.Header.Set("X-Screening-Signature", "not-a-valid-digest")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestScreeningWebhook_MissingSignatureRejected(t *testing.T) {
	router := newWebhookTestRouter(t)

	body := `<XML><order_number>ORD-1</order_number><status>complete</status></XML>`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/screening", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// File: internal/infrastructure/screening/accio_client_test.go
package screening

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/config"
	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
	"github.com/matchbook-rentals/verification-service/internal/domain/interfaces"
)

func testClient(baseURL string) *AccioClient {
	return NewAccioClient(config.ScreeningConfig{
		BaseURL:       baseURL,
		Account:       "matchbook",
		Username:      "api",
		Password:      "secret",
		WebhookSecret: "hook-secret",
		Timeout:       5 * time.Second,
	}, zap.NewNop())
}

func TestSubmitOrder_ReturnsOrderNumber(t *testing.T) {
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`<?xml version="1.0"?><XML><order_number>ORD-42</order_number><status>ok</status></XML>`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	orderID, err := client.SubmitOrder(context.Background(), interfaces.ScreeningOrder{
		FirstName: "Jordan",
		LastName:  "Reyes",
		SSN:       "123-45-6789",
		DOB:       "1991-04-12",
		Address:   "12 Elm St",
		City:      "Austin",
		State:     "TX",
		Zip:       "78701",
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-42", orderID)
	assert.Equal(t, "text/xml", gotContentType)
}

func TestSubmitOrder_VendorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><XML><errortext>invalid credentials</errortext></XML>`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.SubmitOrder(context.Background(), interfaces.ScreeningOrder{FirstName: "A"})
	assert.ErrorIs(t, err, domainErrors.ErrVendorUnavailable)
}

func TestSubmitOrder_MissingOrderNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><XML><status>ok</status></XML>`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.SubmitOrder(context.Background(), interfaces.ScreeningOrder{FirstName: "A"})
	assert.ErrorIs(t, err, domainErrors.ErrVendorUnavailable)
}

func TestValidSignature(t *testing.T) {
	client := testClient("http://unused")
	payload := []byte(`<XML><order_number>ORD-1</order_number></XML>`)

	mac := hmac.New(sha256.New, []byte("hook-secret"))
	mac.Write(payload)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, client.ValidSignature(payload, valid))
	assert.False(t, client.ValidSignature(payload, "deadbeef"))
	assert.False(t, client.ValidSignature(payload, ""))
	assert.False(t, client.ValidSignature([]byte("tampered"), valid))
}

func TestParseCallback(t *testing.T) {
	client := testClient("http://unused")

	cb, err := client.ParseCallback([]byte(`<?xml version="1.0"?>
<XML>
  <order_number>ORD-9</order_number>
  <status>complete</status>
  <results>
    <eviction_count>1</eviction_count>
    <criminal_count>2</criminal_count>
  </results>
</XML>`))
	require.NoError(t, err)
	assert.Equal(t, "ORD-9", cb.OrderID)
	assert.Equal(t, interfaces.ScreeningResultCompleted, cb.Status)
	assert.Equal(t, 1, cb.EvictionCount)
	assert.Equal(t, 2, cb.CriminalRecordCount)
}

func TestParseCallback_FailedStatus(t *testing.T) {
	client := testClient("http://unused")

	cb, err := client.ParseCallback([]byte(`<XML><order_number>ORD-9</order_number><status>error</status></XML>`))
	require.NoError(t, err)
	assert.Equal(t, interfaces.ScreeningResultFailed, cb.Status)
}

func TestParseCallback_MissingOrderNumber(t *testing.T) {
	client := testClient("http://unused")

	_, err := client.ParseCallback([]byte(`<XML><status>complete</status></XML>`))
	assert.ErrorIs(t, err, domainErrors.ErrInvalidRequest)
}

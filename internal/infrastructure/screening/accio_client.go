// File: internal/infrastructure/screening/accio_client.go
package screening

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/config"
	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
	"github.com/matchbook-rentals/verification-service/internal/domain/interfaces"
)

// AccioClient implements interfaces.ScreeningProvider against the Accio Data
// researcher XML endpoint. Orders are submitted synchronously; results come
// back later on the vendor webhook keyed by order number.
type AccioClient struct {
	baseURL       string
	account       string
	username      string
	password      string
	webhookSecret []byte
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewAccioClient creates a screening client from config.
func NewAccioClient(cfg config.ScreeningConfig, logger *zap.Logger) *AccioClient {
	return &AccioClient{
		baseURL:       cfg.BaseURL,
		account:       cfg.Account,
		username:      cfg.Username,
		password:      cfg.Password,
		webhookSecret: []byte(cfg.WebhookSecret),
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		logger:        logger,
	}
}

type orderRequest struct {
	XMLName xml.Name     `xml:"XML"`
	Login   orderLogin   `xml:"login"`
	Order   orderSubject `xml:"New_Order"`
}

type orderLogin struct {
	Account  string `xml:"account"`
	Username string `xml:"username"`
	Password string `xml:"password"`
}

type orderSubject struct {
	FirstName             string `xml:"subject>first_name"`
	LastName              string `xml:"subject>last_name"`
	SSN                   string `xml:"subject>ssn"`
	DOB                   string `xml:"subject>dob"`
	Address               string `xml:"subject>address"`
	City                  string `xml:"subject>city"`
	State                 string `xml:"subject>state"`
	Zip                   string `xml:"subject>zip"`
	CreditAuthorization   bool   `xml:"authorizations>credit"`
	CriminalAuthorization bool   `xml:"authorizations>background"`
}

type orderResponse struct {
	XMLName     xml.Name `xml:"XML"`
	OrderNumber string   `xml:"order_number"`
	Status      string   `xml:"status"`
	ErrorText   string   `xml:"errortext"`
}

// SubmitOrder places a combined eviction/criminal order and returns the
// vendor's order number.
func (c *AccioClient) SubmitOrder(ctx context.Context, order interfaces.ScreeningOrder) (string, error) {
	payload := orderRequest{
		Login: orderLogin{
			Account:  c.account,
			Username: c.username,
			Password: c.password,
		},
		Order: orderSubject{
			FirstName:             order.FirstName,
			LastName:              order.LastName,
			SSN:                   order.SSN,
			DOB:                   order.DOB,
			Address:               order.Address,
			City:                  order.City,
			State:                 order.State,
			Zip:                   order.Zip,
			CreditAuthorization:   true,
			CriminalAuthorization: true,
		},
	}

	body, err := xml.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal screening order: %w", err)
	}
	body = append([]byte(xml.Header), body...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build screening request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainErrors.ErrVendorUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read screening response: %w", err)
	}

	var parsed orderResponse
	if err := xml.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse screening response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || parsed.ErrorText != "" {
		c.logger.Error("screening vendor rejected order",
			zap.Int("status", resp.StatusCode),
			zap.String("vendor_error", parsed.ErrorText),
		)
		return "", fmt.Errorf("%w: order rejected", domainErrors.ErrVendorUnavailable)
	}
	if parsed.OrderNumber == "" {
		return "", fmt.Errorf("%w: response missing order number", domainErrors.ErrVendorUnavailable)
	}

	return parsed.OrderNumber, nil
}

type resultCallback struct {
	XMLName       xml.Name `xml:"XML"`
	OrderNumber   string   `xml:"order_number"`
	Status        string   `xml:"status"`
	EvictionCount int      `xml:"results>eviction_count"`
	CriminalCount int      `xml:"results>criminal_count"`
	ErrorText     string   `xml:"errortext"`
}

// ParseCallback decodes the vendor's XML result postback.
func (c *AccioClient) ParseCallback(payload []byte) (*interfaces.ScreeningCallback, error) {
	var parsed resultCallback
	if err := xml.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse screening callback: %w", err)
	}
	if parsed.OrderNumber == "" {
		return nil, fmt.Errorf("%w: callback missing order number", domainErrors.ErrInvalidRequest)
	}

	status := interfaces.ScreeningResultCompleted
	if parsed.Status != "complete" && parsed.Status != "completed" {
		status = interfaces.ScreeningResultFailed
	}

	return &interfaces.ScreeningCallback{
		OrderID:             parsed.OrderNumber,
		Status:              status,
		EvictionCount:       parsed.EvictionCount,
		CriminalRecordCount: parsed.CriminalCount,
		Raw:                 payload,
	}, nil
}

// ValidSignature checks the vendor's HMAC-SHA256 hex digest header over the
// raw webhook body.
func (c *AccioClient) ValidSignature(payload []byte, signatureHeader string) bool {
	if signatureHeader == "" {
		return false
	}
	mac := hmac.New(sha256.New, c.webhookSecret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signatureHeader))
}

var _ interfaces.ScreeningProvider = (*AccioClient)(nil)

// File: internal/infrastructure/credit/isoftpull_client.go
package credit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/config"
	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
	"github.com/matchbook-rentals/verification-service/internal/domain/interfaces"
)

// ISoftPullClient implements interfaces.CreditProvider against the iSoftPull
// soft-inquiry API.
type ISoftPullClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewISoftPullClient creates a credit client from config.
func NewISoftPullClient(cfg config.CreditConfig, logger *zap.Logger) *ISoftPullClient {
	return &ISoftPullClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type pullRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	SSN       string `json:"ssn"`
}

type pullResponse struct {
	Intelligence struct {
		Result string `json:"result"`
		Name   string `json:"name"`
	} `json:"intelligence"`
}

// Pull runs a soft credit pull and reports pass/fail plus the vendor's score
// band name. The verbatim response body is returned for report storage.
func (c *ISoftPullClient) Pull(ctx context.Context, applicant interfaces.CreditApplicant) (*interfaces.CreditResult, error) {
	reqBody, err := json.Marshal(pullRequest{
		FirstName: applicant.FirstName,
		LastName:  applicant.LastName,
		Address:   applicant.Address,
		City:      applicant.City,
		State:     applicant.State,
		Zip:       applicant.Zip,
		SSN:       applicant.SSN,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/reports", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build credit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrVendorUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read credit response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("credit vendor returned error status",
			zap.Int("status", resp.StatusCode),
		)
		return &interfaces.CreditResult{Passed: false, Payload: respBody}, nil
	}

	var parsed pullResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse credit response: %w", err)
	}

	return &interfaces.CreditResult{
		Passed:  parsed.Intelligence.Result == "passed",
		Band:    parsed.Intelligence.Name,
		Payload: respBody,
	}, nil
}

var _ interfaces.CreditProvider = (*ISoftPullClient)(nil)

// File: internal/domain/interfaces/credit_provider.go
package interfaces

import (
	"context"
	"encoding/json"
)

// CreditApplicant identifies the subject of a soft credit pull.
type CreditApplicant struct {
	FirstName string
	LastName  string
	SSN       string
	Address   string
	City      string
	State     string
	Zip       string
}

// CreditResult is the vendor's decision plus the verbatim payload for the
// stored report. Band is the vendor's own naming (excellent/good/fair/poor).
type CreditResult struct {
	Passed  bool
	Band    string
	Payload json.RawMessage
}

// CreditProvider runs soft credit pulls against the credit bureau vendor.
type CreditProvider interface {
	Pull(ctx context.Context, applicant CreditApplicant) (*CreditResult, error)
}

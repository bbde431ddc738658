// File: internal/domain/interfaces/screening_provider.go
package interfaces

import "context"

// ScreeningOrder is the subject payload submitted to the background-screening
// vendor.
type ScreeningOrder struct {
	FirstName string
	LastName  string
	SSN       string
	DOB       string
	Address   string
	City      string
	State     string
	Zip       string
}

// ScreeningResultStatus is the vendor's verdict on a finished order.
type ScreeningResultStatus string

const (
	ScreeningResultCompleted ScreeningResultStatus = "completed"
	ScreeningResultFailed    ScreeningResultStatus = "failed"
)

// ScreeningCallback is a decoded vendor webhook carrying the result of an
// order, keyed by the order number returned at submission.
type ScreeningCallback struct {
	OrderID             string
	Status              ScreeningResultStatus
	EvictionCount       int
	CriminalRecordCount int
	Raw                 []byte
}

// ScreeningProvider submits background-screening orders. Results arrive
// asynchronously on the vendor webhook, not through this interface.
type ScreeningProvider interface {
	// SubmitOrder places an order and returns the vendor's order number.
	SubmitOrder(ctx context.Context, order ScreeningOrder) (string, error)
	// ValidSignature checks the vendor's HMAC digest header over the raw
	// webhook body.
	ValidSignature(payload []byte, signatureHeader string) bool
	// ParseCallback decodes the vendor's webhook body. Callers must have
	// verified the signature first.
	ParseCallback(payload []byte) (*ScreeningCallback, error)
}

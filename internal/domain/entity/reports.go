// File: internal/domain/entity/reports.go
package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CreditReport stores the credit vendor's response verbatim alongside the
// derived score band.
type CreditReport struct {
	ID             uuid.UUID
	VerificationID uuid.UUID
	ScoreBand      CreditBucket
	Payload        json.RawMessage
	CreatedAt      time.Time
}

// BGSReportStatus is the background-screening vendor's order state.
type BGSReportStatus string

const (
	BGSReportPending   BGSReportStatus = "pending"
	BGSReportCompleted BGSReportStatus = "completed"
	BGSReportFailed    BGSReportStatus = "failed"
)

// BGSReport tracks one background-screening order. OrderID is the vendor's
// correlation key and is unique; the webhook resolves reports through it.
type BGSReport struct {
	ID                  uuid.UUID
	PurchaseID          uuid.UUID
	UserID              uuid.UUID
	OrderID             string
	Status              BGSReportStatus
	EvictionCount       *int
	CriminalRecordCount *int
	Payload             json.RawMessage
	ReceivedAt          *time.Time
	CreatedAt           time.Time
}

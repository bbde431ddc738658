// File: internal/domain/entity/audit_log.go
package entity

import (
	"encoding/json"
	"time"
)

// AuditLogStatus defines the status of an audited action.
type AuditLogStatus string

const (
	AuditLogStatusSuccess AuditLogStatus = "success"
	AuditLogStatusFailure AuditLogStatus = "failure"
)

// AuditLog represents an entry in the audit log, mapping to the "audit_logs"
// table. Payment mutations (capture, cancel, finalize, webhook updates) are
// audited.
type AuditLog struct {
	ID         int64
	UserID     *string
	Action     string
	TargetType *string
	TargetID   *string
	Status     AuditLogStatus
	Details    json.RawMessage
	CreatedAt  time.Time
}

// File: internal/domain/repository/audit_log_repository.go
package repository

import (
	"context"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
)

// AuditLogRepository appends audit entries. Entries are immutable once
// written.
type AuditLogRepository interface {
	Create(ctx context.Context, e *entity.AuditLog) error
}

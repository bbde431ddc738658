// File: internal/service/audit.go
package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
	"github.com/matchbook-rentals/verification-service/internal/domain/repository"
)

// auditor writes best-effort audit entries. Failures are logged, never
// propagated into the request path.
type auditor struct {
	repo   repository.AuditLogRepository
	logger *zap.Logger
}

func newAuditor(repo repository.AuditLogRepository, logger *zap.Logger) *auditor {
	return &auditor{repo: repo, logger: logger}
}

func (a *auditor) record(ctx context.Context, userID, action, targetType, targetID string, status entity.AuditLogStatus, details map[string]interface{}) {
	var detailsJSON json.RawMessage
	if details != nil {
		detailsJSON, _ = json.Marshal(details)
	}

	entry := &entity.AuditLog{
		Action: action,
		Status: status,
	}
	if userID != "" {
		entry.UserID = &userID
	}
	if targetType != "" {
		entry.TargetType = &targetType
	}
	if targetID != "" {
		entry.TargetID = &targetID
	}
	entry.Details = detailsJSON

	if err := a.repo.Create(ctx, entry); err != nil {
		a.logger.Error("failed to write audit log entry",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

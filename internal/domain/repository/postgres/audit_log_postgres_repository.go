// File: internal/domain/repository/postgres/audit_log_postgres_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
	"github.com/matchbook-rentals/verification-service/internal/domain/repository"
)

// AuditLogRepositoryPostgres implements repository.AuditLogRepository.
type AuditLogRepositoryPostgres struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepositoryPostgres creates a new instance.
func NewAuditLogRepositoryPostgres(pool *pgxpool.Pool) *AuditLogRepositoryPostgres {
	return &AuditLogRepositoryPostgres{pool: pool}
}

// Create appends an audit entry. id and created_at have DB defaults.
func (r *AuditLogRepositoryPostgres) Create(ctx context.Context, e *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (user_id, action, target_type, target_id, status, details)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		e.UserID, e.Action, e.TargetType, e.TargetID, e.Status, e.Details,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}

var _ repository.AuditLogRepository = (*AuditLogRepositoryPostgres)(nil)

// File: internal/domain/repository/verification_repository.go
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
)

// VerificationRepository persists verification records.
type VerificationRepository interface {
	Create(ctx context.Context, v *entity.Verification) error
	Update(ctx context.Context, v *entity.Verification) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Verification, error)
	// FindLatestByUserID returns the most recent record by created_at.
	FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*entity.Verification, error)
	FindByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*entity.Verification, error)
	// DeleteByUserID removes every record for the user. Dev-only reset.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	// DeleteStaleNotStarted removes abandoned attempts that never reached the
	// screening stage and are older than the cutoff.
	DeleteStaleNotStarted(ctx context.Context, olderThan time.Time) (int64, error)
}

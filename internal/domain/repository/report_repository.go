// File: internal/domain/repository/report_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
)

// CreditReportRepository persists credit vendor responses.
type CreditReportRepository interface {
	Create(ctx context.Context, r *entity.CreditReport) error
	FindLatestByVerificationID(ctx context.Context, verificationID uuid.UUID) (*entity.CreditReport, error)
}

// BGSReportRepository persists background-screening orders and results.
type BGSReportRepository interface {
	Create(ctx context.Context, r *entity.BGSReport) error
	Update(ctx context.Context, r *entity.BGSReport) error
	FindByOrderID(ctx context.Context, orderID string) (*entity.BGSReport, error)
	FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*entity.BGSReport, error)
}

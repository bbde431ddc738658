// File: internal/domain/repository/postgres/report_postgres_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
	"github.com/matchbook-rentals/verification-service/internal/domain/repository"
)

// CreditReportRepositoryPostgres implements repository.CreditReportRepository.
type CreditReportRepositoryPostgres struct {
	pool *pgxpool.Pool
}

// NewCreditReportRepositoryPostgres creates a new instance.
func NewCreditReportRepositoryPostgres(pool *pgxpool.Pool) *CreditReportRepositoryPostgres {
	return &CreditReportRepositoryPostgres{pool: pool}
}

// Create persists a credit vendor response.
func (r *CreditReportRepositoryPostgres) Create(ctx context.Context, report *entity.CreditReport) error {
	query := `
		INSERT INTO credit_reports (id, verification_id, score_band, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		report.ID, report.VerificationID, report.ScoreBand, report.Payload, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create credit report: %w", err)
	}
	return nil
}

// FindLatestByVerificationID retrieves the most recent credit report for a
// verification.
func (r *CreditReportRepositoryPostgres) FindLatestByVerificationID(ctx context.Context, verificationID uuid.UUID) (*entity.CreditReport, error) {
	query := `
		SELECT id, verification_id, score_band, payload, created_at
		FROM credit_reports
		WHERE verification_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	report := &entity.CreditReport{}
	err := r.pool.QueryRow(ctx, query, verificationID).Scan(
		&report.ID, &report.VerificationID, &report.ScoreBand, &report.Payload, &report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find credit report: %w", err)
	}
	return report, nil
}

var _ repository.CreditReportRepository = (*CreditReportRepositoryPostgres)(nil)

// BGSReportRepositoryPostgres implements repository.BGSReportRepository.
type BGSReportRepositoryPostgres struct {
	pool *pgxpool.Pool
}

// NewBGSReportRepositoryPostgres creates a new instance.
func NewBGSReportRepositoryPostgres(pool *pgxpool.Pool) *BGSReportRepositoryPostgres {
	return &BGSReportRepositoryPostgres{pool: pool}
}

const bgsReportColumns = `
	id, purchase_id, user_id, order_id, status, eviction_count,
	criminal_record_count, payload, received_at, created_at`

func scanBGSReport(row pgx.Row) (*entity.BGSReport, error) {
	report := &entity.BGSReport{}
	err := row.Scan(
		&report.ID, &report.PurchaseID, &report.UserID, &report.OrderID, &report.Status,
		&report.EvictionCount, &report.CriminalRecordCount, &report.Payload,
		&report.ReceivedAt, &report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan BGS report: %w", err)
	}
	return report, nil
}

// Create persists a new screening order.
func (r *BGSReportRepositoryPostgres) Create(ctx context.Context, report *entity.BGSReport) error {
	query := `
		INSERT INTO bgs_reports (
			id, purchase_id, user_id, order_id, status, eviction_count,
			criminal_record_count, payload, received_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		report.ID, report.PurchaseID, report.UserID, report.OrderID, report.Status,
		report.EvictionCount, report.CriminalRecordCount, report.Payload,
		report.ReceivedAt, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create BGS report: %w", err)
	}
	return nil
}

// Update persists the vendor result fields.
func (r *BGSReportRepositoryPostgres) Update(ctx context.Context, report *entity.BGSReport) error {
	query := `
		UPDATE bgs_reports SET
			status = $2, eviction_count = $3, criminal_record_count = $4,
			payload = $5, received_at = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		report.ID, report.Status, report.EvictionCount, report.CriminalRecordCount,
		report.Payload, report.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update BGS report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// FindByOrderID resolves a report through the vendor's order number.
func (r *BGSReportRepositoryPostgres) FindByOrderID(ctx context.Context, orderID string) (*entity.BGSReport, error) {
	query := `SELECT ` + bgsReportColumns + ` FROM bgs_reports WHERE order_id = $1`
	return scanBGSReport(r.pool.QueryRow(ctx, query, orderID))
}

// FindLatestByUserID retrieves the most recent report for a user.
func (r *BGSReportRepositoryPostgres) FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*entity.BGSReport, error) {
	query := `
		SELECT ` + bgsReportColumns + `
		FROM bgs_reports
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanBGSReport(r.pool.QueryRow(ctx, query, userID))
}

var _ repository.BGSReportRepository = (*BGSReportRepositoryPostgres)(nil)

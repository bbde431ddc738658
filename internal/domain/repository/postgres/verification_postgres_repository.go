// File: internal/domain/repository/postgres/verification_postgres_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
	"github.com/matchbook-rentals/verification-service/internal/domain/repository"
)

// VerificationRepositoryPostgres implements repository.VerificationRepository.
type VerificationRepositoryPostgres struct {
	pool *pgxpool.Pool
}

// NewVerificationRepositoryPostgres creates a new instance.
func NewVerificationRepositoryPostgres(pool *pgxpool.Pool) *VerificationRepositoryPostgres {
	return &VerificationRepositoryPostgres{pool: pool}
}

const verificationColumns = `
	id, user_id, purchase_id, status, credit_status, credit_bucket,
	eviction_status, eviction_count, criminal_status, criminal_record_count,
	screening_date, valid_until, payment_captured_at, payment_cancelled_at,
	verification_refunded_at, notes, created_at, updated_at`

func scanVerification(row pgx.Row) (*entity.Verification, error) {
	v := &entity.Verification{}
	err := row.Scan(
		&v.ID, &v.UserID, &v.PurchaseID, &v.Status, &v.CreditStatus, &v.CreditBucket,
		&v.EvictionStatus, &v.EvictionCount, &v.CriminalStatus, &v.CriminalRecordCount,
		&v.ScreeningDate, &v.ValidUntil, &v.PaymentCapturedAt, &v.PaymentCancelledAt,
		&v.VerificationRefundedAt, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrVerificationNotFound
		}
		return nil, fmt.Errorf("failed to scan verification: %w", err)
	}
	return v, nil
}

// Create persists a new verification record.
func (r *VerificationRepositoryPostgres) Create(ctx context.Context, v *entity.Verification) error {
	query := `
		INSERT INTO verifications (
			id, user_id, purchase_id, status, credit_status, credit_bucket,
			eviction_status, eviction_count, criminal_status, criminal_record_count,
			screening_date, valid_until, payment_captured_at, payment_cancelled_at,
			verification_refunded_at, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.pool.Exec(ctx, query,
		v.ID, v.UserID, v.PurchaseID, v.Status, v.CreditStatus, v.CreditBucket,
		v.EvictionStatus, v.EvictionCount, v.CriminalStatus, v.CriminalRecordCount,
		v.ScreeningDate, v.ValidUntil, v.PaymentCapturedAt, v.PaymentCancelledAt,
		v.VerificationRefundedAt, v.Notes, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create verification: %w", err)
	}
	return nil
}

// Update persists all mutable fields of an existing record.
func (r *VerificationRepositoryPostgres) Update(ctx context.Context, v *entity.Verification) error {
	query := `
		UPDATE verifications SET
			purchase_id = $2, status = $3, credit_status = $4, credit_bucket = $5,
			eviction_status = $6, eviction_count = $7, criminal_status = $8,
			criminal_record_count = $9, screening_date = $10, valid_until = $11,
			payment_captured_at = $12, payment_cancelled_at = $13,
			verification_refunded_at = $14, notes = $15, updated_at = $16
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		v.ID, v.PurchaseID, v.Status, v.CreditStatus, v.CreditBucket,
		v.EvictionStatus, v.EvictionCount, v.CriminalStatus, v.CriminalRecordCount,
		v.ScreeningDate, v.ValidUntil, v.PaymentCapturedAt, v.PaymentCancelledAt,
		v.VerificationRefundedAt, v.Notes, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update verification: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrVerificationNotFound
	}
	return nil
}

// FindByID retrieves a verification by its id.
func (r *VerificationRepositoryPostgres) FindByID(ctx context.Context, id uuid.UUID) (*entity.Verification, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications WHERE id = $1`
	return scanVerification(r.pool.QueryRow(ctx, query, id))
}

// FindLatestByUserID retrieves the most recent verification for a user.
func (r *VerificationRepositoryPostgres) FindLatestByUserID(ctx context.Context, userID uuid.UUID) (*entity.Verification, error) {
	query := `
		SELECT ` + verificationColumns + `
		FROM verifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanVerification(r.pool.QueryRow(ctx, query, userID))
}

// FindByPurchaseID retrieves the verification linked to a purchase.
func (r *VerificationRepositoryPostgres) FindByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*entity.Verification, error) {
	query := `SELECT ` + verificationColumns + ` FROM verifications WHERE purchase_id = $1`
	return scanVerification(r.pool.QueryRow(ctx, query, purchaseID))
}

// DeleteByUserID removes all verification records for a user.
func (r *VerificationRepositoryPostgres) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM verifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete verifications by user ID: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteStaleNotStarted removes abandoned attempts older than the cutoff that
// never reached the screening stage.
func (r *VerificationRepositoryPostgres) DeleteStaleNotStarted(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `
		DELETE FROM verifications
		WHERE status IN ($1, $2) AND created_at < $3
	`
	result, err := r.pool.Exec(ctx, query, entity.StatusNotStarted, entity.StatusPending, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale verifications: %w", err)
	}
	return result.RowsAffected(), nil
}

var _ repository.VerificationRepository = (*VerificationRepositoryPostgres)(nil)

// File: internal/domain/repository/postgres/purchase_postgres_repository.go
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

// PurchaseRepositoryPostgres implements repository.PurchaseRepository.
type PurchaseRepositoryPostgres struct {
	pool *pgxpool.Pool
}

// NewPurchaseRepositoryPostgres creates a new instance.
func NewPurchaseRepositoryPostgres(pool *pgxpool.Pool) *PurchaseRepositoryPostgres {
	return &PurchaseRepositoryPostgres{pool: pool}
}

const purchaseColumns = `
	id, user_id, type, amount, status, is_redeemed, order_id,
	payment_intent_id, metadata, created_at, updated_at`

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	p := &entity.Purchase{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.Type, &p.Amount, &p.Status, &p.IsRedeemed, &p.OrderID,
		&p.PaymentIntentID, &p.Metadata, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to scan purchase: %w", err)
	}
	return p, nil
}

// CreateIfAbsent inserts the purchase unless one already exists for the same
// payment intent. The purchases_payment_intent_id_key constraint makes this
// safe under concurrent polls; ON CONFLICT DO NOTHING turns the duplicate
// into a no-op instead of an error.
func (r *PurchaseRepositoryPostgres) CreateIfAbsent(ctx context.Context, p *entity.Purchase) (bool, error) {
	query := `
		INSERT INTO purchases (
			id, user_id, type, amount, status, is_redeemed, order_id,
			payment_intent_id, metadata, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (payment_intent_id) DO NOTHING
	`
	result, err := r.pool.Exec(ctx, query,
		p.ID, p.UserID, p.Type, p.Amount, p.Status, p.IsRedeemed, p.OrderID,
		p.PaymentIntentID, p.Metadata, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create purchase: %w", err)
	}
	return result.RowsAffected() == 1, nil
}

// Update persists mutable purchase fields.
func (r *PurchaseRepositoryPostgres) Update(ctx context.Context, p *entity.Purchase) error {
	query := `
		UPDATE purchases SET
			status = $2, is_redeemed = $3, order_id = $4, metadata = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		p.ID, p.Status, p.IsRedeemed, p.OrderID, p.Metadata, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrPurchaseNotFound
	}
	return nil
}

// FindByPaymentIntentID retrieves the purchase for a gateway payment intent.
func (r *PurchaseRepositoryPostgres) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE payment_intent_id = $1`
	return scanPurchase(r.pool.QueryRow(ctx, query, paymentIntentID))
}

// FindLatestUnredeemed retrieves the newest unredeemed purchase of the given
// types for a user.
func (r *PurchaseRepositoryPostgres) FindLatestUnredeemed(ctx context.Context, userID uuid.UUID, types []entity.PurchaseType) (*entity.Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases
		WHERE user_id = $1 AND type = ANY($2) AND is_redeemed = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`
	typeNames := make([]string, 0, len(types))
	for _, t := range types {
		typeNames = append(typeNames, string(t))
	}
	return scanPurchase(r.pool.QueryRow(ctx, query, userID, typeNames))
}

// MarkRedeemed stamps the vendor order id and completes the purchase.
func (r *PurchaseRepositoryPostgres) MarkRedeemed(ctx context.Context, id uuid.UUID, orderID string) error {
	query := `
		UPDATE purchases
		SET is_redeemed = TRUE, order_id = $2, status = $3, updated_at = $4
		WHERE id = $1 AND is_redeemed = FALSE
	`
	result, err := r.pool.Exec(ctx, query, id, orderID, entity.PurchaseStatusCompleted, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark purchase redeemed: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrPurchaseNotFound
	}
	return nil
}

// DeleteByUserID removes all purchases for a user. Dev-only reset.
func (r *PurchaseRepositoryPostgres) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM purchases WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete purchases by user ID: %w", err)
	}
	return result.RowsAffected(), nil
}

var _ repository.PurchaseRepository = (*PurchaseRepositoryPostgres)(nil)

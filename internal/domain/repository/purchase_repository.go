// File: internal/domain/repository/purchase_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
)

// PurchaseRepository persists verification fee purchases.
type PurchaseRepository interface {
	// CreateIfAbsent inserts the purchase unless one already exists for its
	// payment intent id, relying on the UNIQUE constraint rather than a
	// read-then-write check. It reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, p *entity.Purchase) (bool, error)
	Update(ctx context.Context, p *entity.Purchase) error
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*entity.Purchase, error)
	// FindLatestUnredeemed returns the newest unredeemed purchase of the given
	// types for the user.
	FindLatestUnredeemed(ctx context.Context, userID uuid.UUID, types []entity.PurchaseType) (*entity.Purchase, error)
	// MarkRedeemed stamps the vendor order id and completes the purchase.
	MarkRedeemed(ctx context.Context, id uuid.UUID, orderID string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}

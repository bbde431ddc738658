// File: internal/domain/repository/user_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/matchbook-rentals/verification-service/internal/domain/entity"
)

// UserRepository reads and updates the minimal local user profile.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// SetStripeCustomerID persists the gateway customer handle after first
	// creation.
	SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error
}

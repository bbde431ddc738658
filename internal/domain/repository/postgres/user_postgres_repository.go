// File: internal/domain/repository/postgres/user_postgres_repository.go
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

// UserRepositoryPostgres implements repository.UserRepository.
type UserRepositoryPostgres struct {
	pool *pgxpool.Pool
}

// NewUserRepositoryPostgres creates a new instance.
func NewUserRepositoryPostgres(pool *pgxpool.Pool) *UserRepositoryPostgres {
	return &UserRepositoryPostgres{pool: pool}
}

// FindByID retrieves a user by id.
func (r *UserRepositoryPostgres) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, email, stripe_customer_id, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	u := &entity.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.StripeCustomerID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return u, nil
}

// SetStripeCustomerID persists the gateway customer handle.
func (r *UserRepositoryPostgres) SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	query := `UPDATE users SET stripe_customer_id = $2, updated_at = $3 WHERE id = $1`
	result, err := r.pool.Exec(ctx, query, id, customerID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set stripe customer ID: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrUserNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepositoryPostgres)(nil)

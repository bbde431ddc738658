// File: internal/domain/entity/user.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal local profile this service needs: identity plus the
// payment gateway's customer handle. Account management lives elsewhere.
type User struct {
	ID               uuid.UUID
	Email            string
	StripeCustomerID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// File: internal/domain/models/auth_context.go
package models

import "github.com/google/uuid"

// AuthContext is the authenticated caller's identity, resolved once by the
// auth middleware and passed explicitly into every service call. There is no
// ambient request-scoped lookup.
type AuthContext struct {
	UserID uuid.UUID
	Email  string
}

// File: internal/domain/repository/redis/setup_session_cache.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	domainErrors "github.com/matchbook-rentals/verification-service/internal/domain/errors"
)

// SetupSessionTTL bounds how long a setup-intent session id stays resolvable.
const SetupSessionTTL = 30 * time.Minute

// SetupSessionCache maps the session ids handed to clients during
// setup-intent creation back to the gateway setup intent id.
type SetupSessionCache struct {
	client *redis.Client
}

// NewSetupSessionCache creates a new cache over the shared redis client.
func NewSetupSessionCache(client *redis.Client) *SetupSessionCache {
	return &SetupSessionCache{client: client}
}

func sessionKey(sessionID string) string {
	return "verification:setup-session:" + sessionID
}

// Put stores the session binding with the standard TTL.
func (c *SetupSessionCache) Put(ctx context.Context, sessionID, setupIntentID string) error {
	if err := c.client.Set(ctx, sessionKey(sessionID), setupIntentID, SetupSessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store setup session: %w", err)
	}
	return nil
}

// Get resolves a session id to its setup intent id.
func (c *SetupSessionCache) Get(ctx context.Context, sessionID string) (string, error) {
	val, err := c.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domainErrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to load setup session: %w", err)
	}
	return val, nil
}

// Delete drops a session binding.
func (c *SetupSessionCache) Delete(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete setup session: %w", err)
	}
	return nil
}

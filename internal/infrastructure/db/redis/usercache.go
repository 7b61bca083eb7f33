package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hotslice/ordering-system/internal/core/domain"
)

const userCacheTTL = 5 * time.Minute

// UserCache caches requester lookups performed by the auth middleware.
// User records are immutable after registration, so a bounded TTL can never
// serve stale identity. Key format: user:<id>
type UserCache struct {
	client *redis.Client
}

// NewUserCache creates a UserCache wrapping the given Redis client.
func NewUserCache(client *redis.Client) *UserCache {
	return &UserCache{client: client}
}

type cachedUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Active       bool      `json:"active"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Get returns the cached user, or (nil, nil) on a miss.
func (c *UserCache) Get(ctx context.Context, userID string) (*domain.User, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user cache get: %w", err)
	}

	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, fmt.Errorf("user cache decode: %w", err)
	}

	return &domain.User{
		ID:           cu.ID,
		Email:        cu.Email,
		Username:     cu.Username,
		PasswordHash: cu.PasswordHash,
		Active:       cu.Active,
		Admin:        cu.Admin,
		CreatedAt:    cu.CreatedAt,
	}, nil
}

// Set stores the user for userCacheTTL.
func (c *UserCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(cachedUser{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Active:       user.Active,
		Admin:        user.Admin,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("user cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(user.ID), raw, userCacheTTL).Err()
}

func (c *UserCache) key(userID string) string {
	return "user:" + userID
}

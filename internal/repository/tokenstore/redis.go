// Package tokenstore keeps revoked access tokens in Redis until their
// natural expiry, so sign-out and forced sign-out take effect
// immediately across instances.
package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwalitptl/healthrec-api/internal/repository"
)

const keyPrefix = "revoked_token:"

type store struct {
	client *redis.Client
}

func New(client *redis.Client) repository.TokenStore {
	return &store{client: client}
}

func (s *store) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired, nothing to track.
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *store) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

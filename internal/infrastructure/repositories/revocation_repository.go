package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ShujaShah/starte/domain"
)

// RevocationRepositoryImpl implements domain.RevocationRepository using Redis.
// Each revoked token id lives until the token itself would have expired.
type RevocationRepositoryImpl struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRevocationRepository creates a new revocation repository
func NewRevocationRepository(client *redis.Client) domain.RevocationRepository {
	return &RevocationRepositoryImpl{
		client: client,
		prefix: "revoked:",
		now:    time.Now,
	}
}

// Revoke implements domain.RevocationRepository
func (r *RevocationRepositoryImpl) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		// already expired, nothing to remember
		return nil
	}
	return r.client.Set(ctx, r.prefix+tokenID, until.Unix(), ttl).Err()
}

// IsRevoked implements domain.RevocationRepository
func (r *RevocationRepositoryImpl) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.prefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

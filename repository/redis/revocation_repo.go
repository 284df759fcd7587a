package redis

import (
	"context"
	"encoding/json"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// minTTL keeps a revocation around briefly even when the token is already at its expiry edge.
const minTTL = time.Second

type revocationRepository struct {
	client *redislib.Client
	prefix string
	now    func() time.Time
}

// NewRevocationRepository creates a Redis-backed revocation list. Keys expire with the token.
func NewRevocationRepository(client *redislib.Client) repository.RevocationRepository {
	return &revocationRepository{
		client: client,
		prefix: "revoked:",
		now:    time.Now,
	}
}

func (r *revocationRepository) Save(ctx context.Context, revocation *domain.Revocation) error {
	if revocation == nil || revocation.TokenID == "" {
		return domain.ErrInvalidPayload
	}
	if revocation.CreatedAt.IsZero() {
		revocation.CreatedAt = r.now().UTC()
	}

	ttl := revocation.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		// Nothing to remember: the token no longer verifies.
		return nil
	}
	if ttl < minTTL {
		ttl = minTTL
	}

	payload, err := json.Marshal(revocation)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(revocation.TokenID), payload, ttl).Err()
}

func (r *revocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *revocationRepository) key(tokenID string) string {
	return r.prefix + tokenID
}

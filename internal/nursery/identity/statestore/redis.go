package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
)

const DefaultRedisPrefix = "nursery:identity:"

// Redis keeps identity states as JSON values whose TTL tracks ExpiresAt.
type Redis struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix, now: time.Now}
}

func (r *Redis) key(clientID string) string { return r.prefix + clientID }

func (r *Redis) Save(ctx context.Context, st domain.IdentityState) error {
	if st.ClientID == "" {
		return ErrNoClient
	}

	ttl := st.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal identity state: %w", err)
	}
	return r.client.Set(ctx, r.key(st.ClientID), data, ttl).Err()
}

func (r *Redis) Get(ctx context.Context, clientID string) (domain.IdentityState, error) {
	if clientID == "" {
		return domain.IdentityState{}, ErrNotFound
	}

	data, err := r.client.Get(ctx, r.key(clientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.IdentityState{}, ErrNotFound
		}
		return domain.IdentityState{}, fmt.Errorf("redis get: %w", err)
	}

	var st domain.IdentityState
	if err := json.Unmarshal(data, &st); err != nil {
		return domain.IdentityState{}, fmt.Errorf("unmarshal identity state: %w", err)
	}

	// Key TTLs have second granularity on some servers.
	if st.Expired(r.now()) {
		if err := r.Delete(ctx, clientID); err != nil {
			return domain.IdentityState{}, fmt.Errorf("cleanup expired state: %w", err)
		}
		return domain.IdentityState{}, ErrNotFound
	}
	return st, nil
}

func (r *Redis) Delete(ctx context.Context, clientID string) error {
	if clientID == "" {
		return nil
	}
	return r.client.Del(ctx, r.key(clientID)).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

package statestore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/identity/statestore"
)

var (
	_ statestore.Store = (*statestore.Memory)(nil)
	_ statestore.Store = (*statestore.Redis)(nil)
)

func newRedis(t *testing.T) (*statestore.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return statestore.NewRedis(client, ""), mr
}

// contract runs the behaviour every Store must share.
func contract(t *testing.T, s statestore.Store) {
	ctx := context.Background()
	st := domain.IdentityState{
		ClientID:   "client-1",
		IdentityID: "ident-1",
		Email:      "rose@example.com",
		SignedInAt: time.Now().UTC(),
		ExpiresAt:  time.Now().Add(time.Hour).UTC(),
	}

	_, err := s.Get(ctx, "client-1")
	require.ErrorIs(t, err, statestore.ErrNotFound)

	require.NoError(t, s.Save(ctx, st))
	got, err := s.Get(ctx, "client-1")
	require.NoError(t, err)
	require.Equal(t, st.IdentityID, got.IdentityID)
	require.Equal(t, st.Email, got.Email)
	require.WithinDuration(t, st.ExpiresAt, got.ExpiresAt, time.Millisecond)

	require.NoError(t, s.Delete(ctx, "client-1"))
	_, err = s.Get(ctx, "client-1")
	require.ErrorIs(t, err, statestore.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "never-saved"))

	expired := st
	expired.ExpiresAt = time.Now().Add(-time.Second)
	require.ErrorIs(t, s.Save(ctx, expired), statestore.ErrExpired)

	require.ErrorIs(t, s.Save(ctx, domain.IdentityState{ExpiresAt: st.ExpiresAt}), statestore.ErrNoClient)
	require.NoError(t, s.Ping(ctx))
}

func TestMemoryContract(t *testing.T) {
	contract(t, statestore.NewMemory())
}

func TestRedisContract(t *testing.T) {
	s, _ := newRedis(t)
	contract(t, s)
}

func TestMemoryExpiryAndSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := statestore.NewMemory().WithClock(func() time.Time { return now })

	require.NoError(t, m.Save(ctx, domain.IdentityState{ClientID: "short", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, m.Save(ctx, domain.IdentityState{ClientID: "long", ExpiresAt: now.Add(time.Hour)}))

	now = now.Add(2 * time.Minute)
	_, err := m.Get(ctx, "short")
	require.ErrorIs(t, err, statestore.ErrNotFound)
	require.Equal(t, 2, m.Len())

	require.Equal(t, 1, m.Sweep(now))
	require.Equal(t, 1, m.Len())

	_, err = m.Get(ctx, "long")
	require.NoError(t, err)
}

func TestRedisKeyExpires(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedis(t)

	require.NoError(t, s.Save(ctx, domain.IdentityState{
		ClientID:   "c",
		IdentityID: "i",
		ExpiresAt:  time.Now().Add(30 * time.Minute),
	}))
	require.True(t, mr.Exists(statestore.DefaultRedisPrefix+"c"))
	require.Greater(t, mr.TTL(statestore.DefaultRedisPrefix+"c"), 29*time.Minute)

	mr.FastForward(31 * time.Minute)
	_, err := s.Get(ctx, "c")
	require.ErrorIs(t, err, statestore.ErrNotFound)
}

func TestRedisUnavailable(t *testing.T) {
	s, mr := newRedis(t)
	mr.Close()

	_, err := s.Get(context.Background(), "c")
	require.Error(t, err)
	require.NotErrorIs(t, err, statestore.ErrNotFound)
	require.Error(t, s.Ping(context.Background()))
}

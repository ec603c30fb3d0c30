package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/nursery/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewClientClaims(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := jwtx.NewClientClaims("client-1", "nursery", time.Hour, now)

	require.Equal(t, "client-1", c.SID)
	require.Equal(t, "nursery", c.Issuer)
	require.Equal(t, jwt.ClaimStrings{jwtx.ClientAudience}, c.Audience)
	require.Equal(t, now.Add(time.Hour), c.ExpiresAt.Time)
	require.NotEmpty(t, c.ID)
	require.NoError(t, c.ValidateClient())
}

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "nursery"}}

	require.NoError(t, c.ValidateIssuer("nursery"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("storefront"), jwtx.ErrIssuer)
}

func TestValidateAudience(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Audience: []string{"web", "mobile"}}}

	require.NoError(t, c.ValidateAudience([]string{"web"}))
	require.NoError(t, c.ValidateAudience([]string{"foo", "mobile"}))
	require.NoError(t, c.ValidateAudience(nil))
	require.ErrorIs(t, c.ValidateAudience([]string{"admin"}), jwtx.ErrAudience)
}

func TestValidateExpiry(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid window", func(t *testing.T) {
		c := jwtx.NewClientClaims("c", "", time.Minute, now)
		require.NoError(t, c.ValidateExpiry(now))
	})

	t.Run("expired", func(t *testing.T) {
		c := jwtx.NewClientClaims("c", "", time.Minute, now.Add(-time.Hour))
		require.ErrorIs(t, c.ValidateExpiry(now), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := jwtx.NewClientClaims("c", "", time.Hour, now.Add(time.Minute))
		require.ErrorIs(t, c.ValidateExpiry(now), jwtx.ErrNotYetValid)
	})
}

func TestValidateClientRequiresSID(t *testing.T) {
	c := &jwtx.Claims{}
	require.ErrorIs(t, c.ValidateClient(), jwtx.ErrInvalidClaim)
}

package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"NURSERY_ISSUER", "STATE_STORE", "PORT", "LANDING_WAIT", "SESSION_TTL",
		"PROFILE_TIMEOUT", "COOKIE_SECURE", "CLIENT_IDLE_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "nursery", cfg.Issuer)
	require.Equal(t, StateStoreMemory, cfg.StateStore)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.LandingWait)
	require.Equal(t, 5*time.Second, cfg.ProfileTimeout)
	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 30*time.Minute, cfg.ClientIdleTimeout)
	require.False(t, cfg.CookieSecure)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("STATE_STORE", "Redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PORT", "9090")
	t.Setenv("LANDING_WAIT", "250ms")
	t.Setenv("PROFILE_TIMEOUT", "3")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := LoadConfig()
	require.Equal(t, StateStoreRedis, cfg.StateStore)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 250*time.Millisecond, cfg.LandingWait)
	require.Equal(t, 3*time.Second, cfg.ProfileTimeout)
	require.True(t, cfg.CookieSecure)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "eighty")
	t.Setenv("SESSION_TTL", "soon")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := LoadConfig()
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	require.False(t, cfg.CookieSecure)
}

func TestValidate(t *testing.T) {
	base := Config{StateStore: StateStoreMemory, Port: 8080}
	require.NoError(t, base.Validate())

	noURL := base
	noURL.StateStore = StateStoreRedis
	require.ErrorContains(t, noURL.Validate(), "REDIS_URL")

	unknown := base
	unknown.StateStore = "etcd"
	require.ErrorContains(t, unknown.Validate(), "STATE_STORE")

	badPort := base
	badPort.Port = 70000
	require.ErrorContains(t, badPort.Validate(), "PORT")
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	// No .env is fine.
	require.NoError(t, LoadEnvFile())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NURSERY_ISSUER=from-dotenv\n"), 0o600))
	t.Setenv("NURSERY_ISSUER", "")
	require.NoError(t, os.Unsetenv("NURSERY_ISSUER"))
	require.NoError(t, LoadEnvFile())
	require.Equal(t, "from-dotenv", LoadConfig().Issuer)
}

func TestInitClientKeysPersistsKey(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Issuer: "nursery", SigningKeyFile: filepath.Join(dir, "signing.pem")}

	first, err := InitClientKeys(cfg, slogx.Discard())
	require.NoError(t, err)
	require.True(t, first.KeySet.IsReady())

	second, err := InitClientKeys(cfg, slogx.Discard())
	require.NoError(t, err)
	require.Equal(t, first.Signer.KID(), second.Signer.KID())
}

package service_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/identity"
	"github.com/aussiebroadwan/nursery/internal/nursery/service"
	"github.com/aussiebroadwan/nursery/internal/nursery/store"
	"github.com/aussiebroadwan/nursery/internal/nursery/store/drivers/sqlite"
	"github.com/aussiebroadwan/nursery/pkg/cryptox"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	svc := &service.BootstrapService{Store: s, Token: "let-me-in"}

	done, err := svc.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.False(t, done)

	req := domain.BootstrapData{Email: "Root@Nursery.example", Password: "super-secret", DisplayName: "Head Gardener"}

	_, err = svc.Bootstrap(ctx, "wrong", req)
	require.ErrorIs(t, err, service.ErrBootstrapUnauthorized)

	ident, err := svc.Bootstrap(ctx, "let-me-in", req)
	require.NoError(t, err)
	require.Equal(t, "root@nursery.example", ident.Email)

	p, err := s.Profiles().GetProfile(ctx, ident.ID)
	require.NoError(t, err)
	require.Equal(t, "superadmin", p.Role)
	require.Equal(t, "Head Gardener", p.Attributes["display_name"])

	signedIn, err := (&identity.Provider{Credentials: s.Credentials()}).SignIn(ctx, "root@nursery.example", "super-secret")
	require.NoError(t, err)
	require.Equal(t, ident.ID, signedIn.ID)

	_, err = svc.Bootstrap(ctx, "let-me-in", req)
	require.ErrorIs(t, err, service.ErrBootstrapAlready)
}

func TestBootstrapRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("no token configured", func(t *testing.T) {
		svc := &service.BootstrapService{Store: newStore(t)}
		_, err := svc.Bootstrap(ctx, "", domain.BootstrapData{Email: "a@b.co", Password: "long enough"})
		require.ErrorIs(t, err, service.ErrBootstrapUnauthorized)
	})

	t.Run("weak password", func(t *testing.T) {
		svc := &service.BootstrapService{Store: newStore(t), Token: "t"}
		_, err := svc.Bootstrap(ctx, "t", domain.BootstrapData{Email: "a@b.co", Password: "short"})
		require.ErrorIs(t, err, identity.ErrWeakPassword)
	})

	t.Run("bad email", func(t *testing.T) {
		svc := &service.BootstrapService{Store: newStore(t), Token: "t"}
		_, err := svc.Bootstrap(ctx, "t", domain.BootstrapData{Email: "nope", Password: "long enough"})
		require.ErrorIs(t, err, identity.ErrInvalidEmail)
	})
}

func seedProfiles(t *testing.T, s store.Store, roles map[string]domain.Role) {
	t.Helper()
	for id, role := range roles {
		require.NoError(t, s.Profiles().UpsertProfile(context.Background(), id, domain.ProfilePatch{InitialRole: role}))
	}
}

func TestProfilesListShowsEffectiveRoles(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedProfiles(t, s, map[string]domain.Role{"root": domain.RoleSuperAdmin, "legacy": domain.RoleNone})

	svc := &service.ProfilesService{Store: s}
	list, err := svc.List(ctx)
	require.NoError(t, err)

	roles := map[string]string{}
	for _, p := range list {
		roles[p.ID] = p.Role
	}
	require.Equal(t, map[string]string{"root": "superadmin", "legacy": "user"}, roles)

	p, err := svc.Get(ctx, "legacy")
	require.NoError(t, err)
	require.Equal(t, "user", p.Role)

	counts, err := svc.Counts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, counts[domain.RoleSuperAdmin])
	require.Equal(t, 1, counts[domain.RoleUser])
}

func TestAssignRole(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seedProfiles(t, s, map[string]domain.Role{"root": domain.RoleSuperAdmin, "shop": domain.RoleUser})
	svc := &service.ProfilesService{Store: s}

	role, err := svc.AssignRole(ctx, "shop", "Admin")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, role)

	p, err := svc.Get(ctx, "shop")
	require.NoError(t, err)
	require.Equal(t, "admin", p.Role)

	_, err = svc.AssignRole(ctx, "shop", "owner")
	require.ErrorIs(t, err, domain.ErrUnknownRole)

	_, err = svc.AssignRole(ctx, "ghost", "user")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.AssignRole(ctx, "root", "user")
	require.ErrorIs(t, err, service.ErrLastSuperAdmin)

	// With a second superadmin the first may step down.
	_, err = svc.AssignRole(ctx, "shop", "superadmin")
	require.NoError(t, err)
	_, err = svc.AssignRole(ctx, "root", "user")
	require.NoError(t, err)
}

type fakeEvicter struct {
	cutoffs []time.Time
	n       int
}

func (f *fakeEvicter) EvictIdle(cutoff time.Time) int {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.n
}

type fakeSweeper struct{ calls atomic.Int32 }

func (f *fakeSweeper) Sweep(time.Time) int {
	f.calls.Add(1)
	return 2
}

func TestHousekeepingCleanup(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	ev := &fakeEvicter{n: 3}
	sw := &fakeSweeper{}

	hk := service.NewHousekeepingService(ev, sw, slogx.Discard(), time.Minute, 15*time.Minute)
	hk.Now = func() time.Time { return now }
	hk.Cleanup()

	require.Equal(t, []time.Time{now.Add(-15 * time.Minute)}, ev.cutoffs)
	require.Equal(t, int32(1), sw.calls.Load())
}

func TestHousekeepingWithoutSweeper(t *testing.T) {
	hk := service.NewHousekeepingService(&fakeEvicter{}, nil, slogx.Discard(), 0, 0)
	require.Equal(t, time.Minute, hk.Interval)
	require.Equal(t, 30*time.Minute, hk.IdleTimeout)
	hk.Cleanup()
}

type countingEvicter struct{ calls atomic.Int32 }

func (c *countingEvicter) EvictIdle(time.Time) int {
	c.calls.Add(1)
	return 0
}

func TestHousekeepingStartStop(t *testing.T) {
	ev := &countingEvicter{}
	hk := service.NewHousekeepingService(ev, nil, slogx.Discard(), 10*time.Millisecond, time.Minute)
	hk.Start()

	require.Eventually(t, func() bool { return ev.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	hk.Stop()

	after := ev.calls.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, after, ev.calls.Load())
}

package landing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/landing"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

type navLog struct{ paths []string }

func (n *navLog) Replace(path string) { n.paths = append(n.paths, path) }

func as(role domain.Role) domain.Session {
	return domain.Session{Identity: &domain.Identity{ID: "id"}, Role: role}
}

func TestPathFor(t *testing.T) {
	require.Equal(t, "/admin/dashboard", landing.PathFor(domain.RoleSuperAdmin))
	require.Equal(t, "/owner/dashboard", landing.PathFor(domain.RoleAdmin))
	require.Equal(t, "/user", landing.PathFor(domain.RoleUser))
	require.Equal(t, "/user", landing.PathFor(domain.Role("mystery")))
}

func TestFiresOnceAfterLoading(t *testing.T) {
	nav := &navLog{}
	r := landing.New(nav, slogx.Discard())

	seq := []domain.Session{
		{Loading: true},
		{Loading: true},
		as(domain.RoleUser),
		as(domain.RoleUser),
		as(domain.RoleUser),
	}
	for _, s := range seq {
		r.Observe(s)
	}

	require.Equal(t, []string{"/user"}, nav.paths)
	require.True(t, r.Fired())
}

func TestRoleMapping(t *testing.T) {
	for role, want := range map[domain.Role]string{
		domain.RoleSuperAdmin: "/admin/dashboard",
		domain.RoleAdmin:      "/owner/dashboard",
		domain.RoleUser:       "/user",
	} {
		nav := &navLog{}
		require.True(t, landing.New(nav, slogx.Discard()).Observe(as(role)))
		require.Equal(t, []string{want}, nav.paths)
	}
}

func TestSignedOutGoesToLogin(t *testing.T) {
	nav := &navLog{}
	r := landing.New(nav, slogx.Discard())
	require.True(t, r.Observe(domain.Session{}))
	require.Equal(t, []string{"/login"}, nav.paths)

	// Later sign-in does not move the client again.
	require.False(t, r.Observe(as(domain.RoleAdmin)))
	require.Len(t, nav.paths, 1)
}

func TestMissingRoleDoesNotNavigate(t *testing.T) {
	nav := &navLog{}
	r := landing.New(nav, slogx.Discard())

	require.False(t, r.Observe(as(domain.RoleNone)))
	require.False(t, r.Fired())
	require.Empty(t, nav.paths)

	// The latch is still open for a good snapshot.
	require.True(t, r.Observe(as(domain.RoleAdmin)))
	require.Equal(t, []string{"/owner/dashboard"}, nav.paths)
}

func TestRun(t *testing.T) {
	ch := make(chan domain.Session, 4)
	ch <- domain.Session{Loading: true}
	ch <- as(domain.RoleSuperAdmin)
	ch <- as(domain.RoleUser)

	var got []string
	r := landing.New(landing.NavigatorFunc(func(p string) { got = append(got, p) }), slogx.Discard())
	require.True(t, r.Run(context.Background(), ch))
	require.Equal(t, []string{"/admin/dashboard"}, got)
}

func TestRunStopsOnContext(t *testing.T) {
	ch := make(chan domain.Session, 1)
	ch <- domain.Session{Loading: true}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	r := landing.New(landing.NavigatorFunc(func(string) { t.Fatal("navigated") }), slogx.Discard())
	require.False(t, r.Run(ctx, ch))
}

func TestRunStopsOnClosedChannel(t *testing.T) {
	ch := make(chan domain.Session)
	close(ch)
	r := landing.New(landing.NavigatorFunc(func(string) {}), slogx.Discard())
	require.False(t, r.Run(context.Background(), ch))
}

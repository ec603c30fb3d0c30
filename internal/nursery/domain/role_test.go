package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
)

func TestParseRole(t *testing.T) {
	cases := map[string]domain.Role{
		"superadmin":  domain.RoleSuperAdmin,
		"admin":       domain.RoleAdmin,
		"user":        domain.RoleUser,
		" Admin ":     domain.RoleAdmin,
		"SUPERADMIN":  domain.RoleSuperAdmin,
		"":            domain.RoleUser,
		"owner":       domain.RoleUser,
		"root; DROP":  domain.RoleUser,
		"super admin": domain.RoleUser,
	}
	for in, want := range cases {
		require.Equal(t, want, domain.ParseRole(in), "input %q", in)
	}
}

func TestParseRoleStrict(t *testing.T) {
	r, err := domain.ParseRoleStrict("Admin")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, r)

	for _, bad := range []string{"", "owner", "guest"} {
		_, err := domain.ParseRoleStrict(bad)
		require.ErrorIs(t, err, domain.ErrUnknownRole, "input %q", bad)
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range domain.Roles {
		require.True(t, r.Valid(), r)
	}
	require.False(t, domain.RoleNone.Valid())
	require.False(t, domain.Role("Admin").Valid())
}

func TestSessionAccessors(t *testing.T) {
	signedOut := domain.Session{}
	require.False(t, signedOut.SignedIn())
	require.True(t, signedOut.Resolved())

	owner := domain.Session{Identity: &domain.Identity{ID: "a"}, Role: domain.RoleAdmin}
	require.True(t, owner.SignedIn())
	require.True(t, owner.IsAdmin())
	require.False(t, owner.IsSuperAdmin())

	root := domain.Session{Identity: &domain.Identity{ID: "b"}, Role: domain.RoleSuperAdmin}
	require.True(t, root.IsSuperAdmin())
	require.False(t, root.IsAdmin())

	require.False(t, domain.Session{Loading: true}.Resolved())
}

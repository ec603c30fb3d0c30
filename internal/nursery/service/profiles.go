package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/store"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

var ErrLastSuperAdmin = errors.New("cannot demote the last superadmin")

// ProfilesService is the admin tooling over profiles. Roles it returns are
// effective roles: a missing or unknown stored role reads as user.
type ProfilesService struct {
	Store store.Store
}

func effective(p domain.Profile) domain.Profile {
	p.Role = domain.ParseRole(p.Role).String()
	return p
}

func (s *ProfilesService) Get(ctx context.Context, id string) (domain.Profile, error) {
	p, err := s.Store.Profiles().GetProfile(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	return effective(p), nil
}

func (s *ProfilesService) List(ctx context.Context) ([]domain.Profile, error) {
	list, err := s.Store.Profiles().ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i] = effective(list[i])
	}
	return list, nil
}

func (s *ProfilesService) Counts(ctx context.Context) (map[domain.Role]int, error) {
	return s.Store.Profiles().CountByRole(ctx)
}

// AssignRole sets the role of profile id. rawRole must name a real role. The
// last superadmin cannot be demoted, so the install is never left without
// one.
func (s *ProfilesService) AssignRole(ctx context.Context, id, rawRole string) (domain.Role, error) {
	role, err := domain.ParseRoleStrict(rawRole)
	if err != nil {
		return domain.RoleNone, err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Profiles().GetProfile(ctx, id)
		if err != nil {
			return err
		}

		if domain.ParseRole(current.Role) == domain.RoleSuperAdmin && role != domain.RoleSuperAdmin {
			counts, err := tx.Profiles().CountByRole(ctx)
			if err != nil {
				return err
			}
			if counts[domain.RoleSuperAdmin] <= 1 {
				return ErrLastSuperAdmin
			}
		}

		return tx.Profiles().UpdateRole(ctx, id, role)
	})
	if err != nil {
		return domain.RoleNone, err
	}

	slogx.FromContext(ctx).Info("role assigned",
		slog.String("profile_id", id), slog.String("role", role.String()))
	return role, nil
}

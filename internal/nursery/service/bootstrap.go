package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/identity"
	"github.com/aussiebroadwan/nursery/internal/nursery/store"
	"github.com/aussiebroadwan/nursery/pkg/cryptox"
	"github.com/aussiebroadwan/nursery/pkg/idx"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapFailed       = errors.New("failed to create superadmin")
)

// BootstrapService creates the first superadmin on an empty install.
type BootstrapService struct {
	Store store.Store
	Token string // pre-shared BOOTSTRAP_TOKEN; empty disables bootstrap
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Credentials().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap checks token and creates the superadmin identity and its profile
// in one transaction.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, req domain.BootstrapData) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	if done, err := s.IsBootstrapped(ctx); err != nil {
		return domain.Identity{}, err
	} else if done {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.Identity{}, ErrBootstrapAlready
	}

	if s.Token == "" || !cryptox.EqualTokens(token, s.Token) {
		l.Warn("unauthorized bootstrap attempt", slog.String("token_fingerprint", cryptox.FingerprintToken(token)))
		return domain.Identity{}, ErrBootstrapUnauthorized
	}

	email, err := identity.NormalizeEmail(req.Email)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := identity.ValidatePassword(req.Password); err != nil {
		return domain.Identity{}, err
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		l.Error("failed to hash superadmin password", slog.Any("error", err))
		return domain.Identity{}, ErrBootstrapFailed
	}

	now := time.Now()
	ident := domain.Identity{ID: idx.NewAt(now).String(), Email: email}

	attrs := map[string]string{}
	if req.DisplayName != "" {
		attrs["display_name"] = req.DisplayName
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// A concurrent bootstrap may have won since the check above.
		empty, err := tx.Credentials().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}

		if err := tx.Credentials().CreateCredential(ctx, domain.Credential{
			IdentityID:   ident.ID,
			Email:        email,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			l.Error("failed to create superadmin credential", slog.Any("error", err))
			return ErrBootstrapFailed
		}

		if err := tx.Profiles().UpsertProfile(ctx, ident.ID, domain.ProfilePatch{
			Email:       email,
			InitialRole: domain.RoleSuperAdmin,
			Attributes:  attrs,
			CreatedAt:   now,
		}); err != nil {
			l.Error("failed to create superadmin profile", slog.Any("error", err))
			return ErrBootstrapFailed
		}
		return nil
	})
	if err != nil {
		return domain.Identity{}, err
	}

	l.Info("successfully bootstrapped system", slog.String("identity_id", ident.ID))
	return ident, nil
}

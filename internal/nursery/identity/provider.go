// Package identity is the identity provider: it verifies credentials and
// tracks which identity each client runtime is signed in as.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/store"
	"github.com/aussiebroadwan/nursery/pkg/cryptox"
	"github.com/aussiebroadwan/nursery/pkg/idx"
	"github.com/aussiebroadwan/nursery/pkg/slogx"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

// Provider checks and creates credentials. It holds no per-client state.
type Provider struct {
	Credentials store.Credentials
	Now         func() time.Time
}

func (p *Provider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// NormalizeEmail trims and lowercases email and checks it is a bare address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// ValidatePassword enforces the length policy.
func ValidatePassword(password string) error {
	if n := len([]rune(password)); n < MinPasswordLength || n > MaxPasswordLength {
		return newError(KindWeakPassword,
			fmt.Errorf("password must be %d to %d characters", MinPasswordLength, MaxPasswordLength))
	}
	return nil
}

// SignUp creates a credential and returns the new identity.
func (p *Provider) SignUp(ctx context.Context, email, password string) (domain.Identity, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := ValidatePassword(password); err != nil {
		return domain.Identity{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Identity{}, newError(KindNetwork, fmt.Errorf("hash password: %w", err))
	}

	now := p.now()
	id := idx.NewAt(now).String()
	err = p.Credentials.CreateCredential(ctx, domain.Credential{
		IdentityID:   id,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.Identity{}, ErrEmailInUse
	case err != nil:
		return domain.Identity{}, newError(KindNetwork, err)
	}

	slogx.FromContext(ctx).Info("identity created", slog.String("identity_id", id))
	return domain.Identity{ID: id, Email: email}, nil
}

// SignIn verifies email and password.
func (p *Provider) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		// An address that cannot exist cannot be registered either.
		return domain.Identity{}, ErrUserNotFound
	}

	cred, err := p.Credentials.GetCredentialByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.Identity{}, ErrUserNotFound
	case err != nil:
		return domain.Identity{}, newError(KindNetwork, err)
	}

	if err := cryptox.VerifyPassword(password, cred.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			slogx.FromContext(ctx).Error("stored password hash unusable",
				slog.String("identity_id", cred.IdentityID), slog.Any("error", err))
		}
		return domain.Identity{}, ErrInvalidCredentials
	}

	return domain.Identity{ID: cred.IdentityID, Email: cred.Email}, nil
}

// Lookup returns the identity for id, typically to re-hydrate a stored
// sign-in.
func (p *Provider) Lookup(ctx context.Context, id string) (domain.Identity, error) {
	cred, err := p.Credentials.GetCredentialByID(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.Identity{}, ErrUserNotFound
	case err != nil:
		return domain.Identity{}, newError(KindNetwork, err)
	}
	return domain.Identity{ID: cred.IdentityID, Email: cred.Email}, nil
}

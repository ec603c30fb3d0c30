package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and hand out
// sub-repositories so that transactional work goes through Tx explicitly.
type Store interface {
	Credentials() Credentials
	Profiles() Profiles

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller must Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a Store scoped to one transaction.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Credentials interface {
	// CreateCredential inserts a credential. Returns ErrAlreadyExists when the
	// email (case-insensitive) or identity id is taken.
	CreateCredential(ctx context.Context, c domain.Credential) error

	GetCredentialByEmail(ctx context.Context, email string) (domain.Credential, error)
	GetCredentialByID(ctx context.Context, identityID string) (domain.Credential, error)

	// IsEmpty reports whether no identity has been created yet.
	IsEmpty(ctx context.Context) (bool, error)
}

type Profiles interface {
	// GetProfile returns ErrNotFound when no profile exists for id.
	GetProfile(ctx context.Context, id string) (domain.Profile, error)

	// UpsertProfile creates the profile or merges patch into it.
	UpsertProfile(ctx context.Context, id string, patch domain.ProfilePatch) error

	// UpdateRole overwrites the role. Returns ErrNotFound for unknown ids.
	UpdateRole(ctx context.Context, id string, role domain.Role) error

	// ListProfiles returns every profile, oldest first.
	ListProfiles(ctx context.Context) ([]domain.Profile, error)

	// CountByRole tallies profiles by their effective role.
	CountByRole(ctx context.Context) (map[domain.Role]int, error)
}

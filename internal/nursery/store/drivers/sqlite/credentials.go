package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
)

type credentialsRepo struct {
	db dbtx
}

const credentialColumns = `identity_id, email, password_hash, created_at, updated_at`

func (r *credentialsRepo) CreateCredential(ctx context.Context, c domain.Credential) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO credentials (`+credentialColumns+`) VALUES (?, ?, ?, ?, ?)`,
		c.IdentityID, c.Email, c.PasswordHash, formatTime(c.CreatedAt), formatTime(now),
	)
	return mapConstraint(err)
}

func (r *credentialsRepo) GetCredentialByEmail(ctx context.Context, email string) (domain.Credential, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+credentialColumns+` FROM credentials WHERE email = ? COLLATE NOCASE`, email)
	return scanCredential(row)
}

func (r *credentialsRepo) GetCredentialByID(ctx context.Context, identityID string) (domain.Credential, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+credentialColumns+` FROM credentials WHERE identity_id = ?`, identityID)
	return scanCredential(row)
}

func (r *credentialsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM credentials`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func scanCredential(row interface{ Scan(...any) error }) (domain.Credential, error) {
	var (
		c                    domain.Credential
		createdAt, updatedAt string
	)
	if err := row.Scan(&c.IdentityID, &c.Email, &c.PasswordHash, &createdAt, &updatedAt); err != nil {
		return domain.Credential{}, mapNotFound(err)
	}

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Credential{}, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Credential{}, err
	}
	return c, nil
}

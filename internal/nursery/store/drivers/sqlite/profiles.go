package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/nursery/internal/nursery/domain"
	"github.com/aussiebroadwan/nursery/internal/nursery/store"
)

type profilesRepo struct {
	db dbtx
}

const profileColumns = `id, email, role, attributes, created_at, updated_at`

func (r *profilesRepo) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

// UpsertProfile inserts or merges in a single statement so that two racing
// creates for the same identity converge on one row.
func (r *profilesRepo) UpsertProfile(ctx context.Context, id string, patch domain.ProfilePatch) error {
	attrs := patch.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	rawAttrs, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("encode attributes: %w", err)
	}

	now := time.Now()
	createdAt := patch.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email      = CASE WHEN excluded.email <> '' THEN excluded.email ELSE profiles.email END,
			role       = COALESCE(NULLIF(profiles.role, ''), excluded.role),
			attributes = json_patch(profiles.attributes, excluded.attributes),
			updated_at = excluded.updated_at`,
		id, patch.Email, mapStringNull(string(patch.InitialRole)), string(rawAttrs),
		formatTime(createdAt), formatTime(now),
	)
	return err
}

func (r *profilesRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), formatTime(time.Now()), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *profilesRepo) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *profilesRepo) CountByRole(ctx context.Context) (map[domain.Role]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role, COUNT(*) FROM profiles GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Role]int, len(domain.Roles))
	for _, role := range domain.Roles {
		counts[role] = 0
	}
	for rows.Next() {
		var (
			raw sql.NullString
			n   int
		)
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, err
		}
		// Missing and unknown roles are counted as the role they act as.
		counts[domain.ParseRole(mapNullString(raw))] += n
	}
	return counts, rows.Err()
}

func scanProfile(row interface{ Scan(...any) error }) (domain.Profile, error) {
	var (
		p                    domain.Profile
		role                 sql.NullString
		rawAttrs             string
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Email, &role, &rawAttrs, &createdAt, &updatedAt); err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	p.Role = mapNullString(role)

	if err := json.Unmarshal([]byte(rawAttrs), &p.Attributes); err != nil {
		return domain.Profile{}, fmt.Errorf("decode attributes for %s: %w", p.ID, err)
	}

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Profile{}, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

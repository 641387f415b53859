package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/platform/db"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	List(ctx context.Context) ([]Role, error)
	GetByID(ctx context.Context, id int64) (Role, error)
	GetByName(ctx context.Context, name string) (Role, error)
	Upsert(ctx context.Context, name string, permissions []string) (Role, error)
	Update(ctx context.Context, id int64, name string, permissions []string) (Role, error)
	DeleteWithReassign(ctx context.Context, id int64, fallbackName string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all roles ordered by name.
func (r *Repository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, permissions, created_at, updated_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Permissions, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// GetByID fetches a role by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (Role, error) {
	return r.scanOne(ctx, `SELECT id, name, permissions, created_at, updated_at FROM roles WHERE id = $1`, id)
}

// GetByName fetches a role by its unique name.
func (r *Repository) GetByName(ctx context.Context, name string) (Role, error) {
	return r.scanOne(ctx, `SELECT id, name, permissions, created_at, updated_at FROM roles WHERE name = $1`, name)
}

// Upsert inserts a role or, when the name already exists, replaces its
// permission set.
func (r *Repository) Upsert(ctx context.Context, name string, permissions []string) (Role, error) {
	return r.scanOne(ctx, `
INSERT INTO roles (name, permissions, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW())
ON CONFLICT (name) DO UPDATE SET permissions = EXCLUDED.permissions, updated_at = NOW()
RETURNING id, name, permissions, created_at, updated_at`, name, permissions)
}

// Update renames a role and replaces its permission set.
func (r *Repository) Update(ctx context.Context, id int64, name string, permissions []string) (Role, error) {
	return r.scanOne(ctx, `
UPDATE roles SET name = $2, permissions = $3, updated_at = NOW()
WHERE id = $1
RETURNING id, name, permissions, created_at, updated_at`, id, name, permissions)
}

// DeleteWithReassign moves every user referencing the role onto the fallback
// role and deletes the role, in one transaction. No window exists in which a
// user references a vanished role.
func (r *Repository) DeleteWithReassign(ctx context.Context, id int64, fallbackName string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var fallbackID int64
		err := tx.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, fallbackName).Scan(&fallbackID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrInvariant
			}
			return err
		}
		if fallbackID == id {
			// The fallback role must always exist; deleting it is a
			// misconfiguration, not a user error.
			return shared.ErrInvariant
		}
		if _, err := tx.Exec(ctx, `UPDATE users SET role_id = $1, updated_at = NOW() WHERE role_id = $2`, fallbackID, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) scanOne(ctx context.Context, query string, args ...any) (Role, error) {
	var role Role
	err := r.pool.QueryRow(ctx, query, args...).Scan(&role.ID, &role.Name, &role.Permissions, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

var _ RepositoryPort = (*Repository)(nil)

package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// RepositoryPort defines data access methods for the user directory.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]User, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, email, name string, roleID int64) (User, error)
	UpdateRole(ctx context.Context, userID, roleID int64) (User, error)
	Delete(ctx context.Context, userID int64) error
	RolePermissions(ctx context.Context, roleID int64) ([]string, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `u.id, COALESCE(u.external_id, ''), u.email, u.name, COALESCE(u.photo_url, ''), u.role_id, r.name, u.created_at, u.updated_at`

// List returns a page of users with their role names.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users u JOIN roles r ON r.id = u.role_id ORDER BY u.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the total number of directory users.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	return total, err
}

// GetByID fetches a user by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users u JOIN roles r ON r.id = u.role_id WHERE u.id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// Create inserts a directory-managed user with an assigned role.
func (r *Repository) Create(ctx context.Context, email, name string, roleID int64) (User, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (email, name, role_id, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
RETURNING id`, email, name, roleID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, shared.ErrDuplicate
		}
		return User{}, err
	}
	return r.GetByID(ctx, id)
}

// UpdateRole mutates the user's role reference.
func (r *Repository) UpdateRole(ctx context.Context, userID, roleID int64) (User, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET role_id = $2, updated_at = NOW() WHERE id = $1`, userID, roleID)
	if err != nil {
		return User{}, err
	}
	if tag.RowsAffected() == 0 {
		return User{}, shared.ErrNotFound
	}
	return r.GetByID(ctx, userID)
}

// Delete removes the user record.
func (r *Repository) Delete(ctx context.Context, userID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RolePermissions loads a role's current permission set. Escalation checks
// read from here on every call rather than trusting caller-supplied lists.
func (r *Repository) RolePermissions(ctx context.Context, roleID int64) ([]string, error) {
	var perms []string
	err := r.pool.QueryRow(ctx, `SELECT permissions FROM roles WHERE id = $1`, roleID).Scan(&perms)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return perms, nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(&user.ID, &user.ExternalID, &user.Email, &user.Name, &user.PhotoURL, &user.RoleID, &user.RoleName, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

var _ RepositoryPort = (*Repository)(nil)

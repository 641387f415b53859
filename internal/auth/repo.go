package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByExternalID(ctx context.Context, externalID string) (*Identity, error)
	CreateFromExternal(ctx context.Context, ext ExternalIdentity, roleName string) (*Identity, error)
	UpdateProviderCredentials(ctx context.Context, userID int64, access, refresh string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const identityQuery = `
SELECT u.id, u.external_id, u.email, u.name, COALESCE(u.photo_url, ''), r.id, r.name, r.permissions
FROM users u
JOIN roles r ON r.id = u.role_id
WHERE u.external_id = $1`

// FindByExternalID loads a user and its role eagerly by external identity id.
func (r *PGRepository) FindByExternalID(ctx context.Context, externalID string) (*Identity, error) {
	var ident Identity
	err := r.pool.QueryRow(ctx, identityQuery, externalID).Scan(
		&ident.UserID, &ident.ExternalID, &ident.Email, &ident.Name, &ident.PhotoURL,
		&ident.RoleID, &ident.RoleName, &ident.Permissions,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ident, nil
}

// CreateFromExternal provisions a user for a first-time external identity,
// bound to the named fallback role. Fails with ErrInvariant when that role is
// missing: auto-provisioning must never invent an unbound user.
func (r *PGRepository) CreateFromExternal(ctx context.Context, ext ExternalIdentity, roleName string) (*Identity, error) {
	var roleID int64
	var perms []string
	err := r.pool.QueryRow(ctx, `SELECT id, permissions FROM roles WHERE name = $1`, roleName).Scan(&roleID, &perms)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrInvariant
		}
		return nil, err
	}

	now := time.Now().UTC()
	var userID int64
	err = r.pool.QueryRow(ctx, `
INSERT INTO users (external_id, email, name, photo_url, role_id, access_credential, refresh_credential, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
RETURNING id`,
		ext.ID, ext.Email, ext.Name, ext.PhotoURL, roleID, ext.AccessToken, ext.RefreshToken, now).Scan(&userID)
	if err != nil {
		return nil, err
	}

	return &Identity{
		UserID:      userID,
		ExternalID:  ext.ID,
		Email:       ext.Email,
		Name:        ext.Name,
		PhotoURL:    ext.PhotoURL,
		RoleID:      roleID,
		RoleName:    roleName,
		Permissions: perms,
	}, nil
}

// UpdateProviderCredentials stores refreshed provider tokens on re-auth.
func (r *PGRepository) UpdateProviderCredentials(ctx context.Context, userID int64, access, refresh string) error {
	_, err := r.pool.Exec(ctx, `
UPDATE users
SET access_credential = $2,
    refresh_credential = CASE WHEN $3 <> '' THEN $3 ELSE refresh_credential END,
    updated_at = NOW()
WHERE id = $1`, userID, access, refresh)
	return err
}

var _ Repository = (*PGRepository)(nil)

package meetings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// RepositoryPort defines data access methods for meetings.
type RepositoryPort interface {
	Create(ctx context.Context, organizerID int64, result EventResult, in EventInput) (Meeting, error)
	GetByID(ctx context.Context, id int64) (Meeting, error)
	Update(ctx context.Context, id int64, result EventResult, in EventInput) (Meeting, error)
	Delete(ctx context.Context, id int64) error
	ListByOrganizer(ctx context.Context, organizerID int64, from, to time.Time) ([]Meeting, error)
	OrganizerCredentials(ctx context.Context, userID int64) (ProviderCredentials, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const meetingColumns = `id, event_id, title, description, organizer_id, meet_link, html_link, start_at, end_at, attendees, created_at, updated_at`

// Create stores the local mirror of a provider event.
func (r *Repository) Create(ctx context.Context, organizerID int64, result EventResult, in EventInput) (Meeting, error) {
	return r.scanOne(ctx, `
INSERT INTO meetings (event_id, title, description, organizer_id, meet_link, html_link, start_at, end_at, attendees, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
RETURNING `+meetingColumns,
		result.EventID, in.Title, in.Description, organizerID, result.MeetLink, result.HTMLLink, in.StartAt, in.EndAt, in.Attendees)
}

// GetByID fetches a meeting by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (Meeting, error) {
	return r.scanOne(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id)
}

// Update rewrites the mirrored fields after a provider update.
func (r *Repository) Update(ctx context.Context, id int64, result EventResult, in EventInput) (Meeting, error) {
	return r.scanOne(ctx, `
UPDATE meetings
SET title = $2, description = $3, meet_link = $4, html_link = $5, start_at = $6, end_at = $7, attendees = $8, updated_at = NOW()
WHERE id = $1
RETURNING `+meetingColumns,
		id, in.Title, in.Description, result.MeetLink, result.HTMLLink, in.StartAt, in.EndAt, in.Attendees)
}

// Delete removes the mirror row.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListByOrganizer returns the organizer's meetings in the window.
func (r *Repository) ListByOrganizer(ctx context.Context, organizerID int64, from, to time.Time) ([]Meeting, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+meetingColumns+` FROM meetings
WHERE organizer_id = $1 AND start_at >= $2 AND start_at < $3
ORDER BY start_at`, organizerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var meetings []Meeting
	for rows.Next() {
		var m Meeting
		if err := rows.Scan(&m.ID, &m.EventID, &m.Title, &m.Description, &m.OrganizerID, &m.MeetLink, &m.HTMLLink, &m.StartAt, &m.EndAt, &m.Attendees, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return meetings, nil
}

// OrganizerCredentials loads the stored provider tokens for the user.
func (r *Repository) OrganizerCredentials(ctx context.Context, userID int64) (ProviderCredentials, error) {
	var creds ProviderCredentials
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(access_credential, ''), COALESCE(refresh_credential, '') FROM users WHERE id = $1`, userID).
		Scan(&creds.AccessToken, &creds.RefreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProviderCredentials{}, shared.ErrNotFound
		}
		return ProviderCredentials{}, err
	}
	return creds, nil
}

func (r *Repository) scanOne(ctx context.Context, query string, args ...any) (Meeting, error) {
	var m Meeting
	err := r.pool.QueryRow(ctx, query, args...).Scan(&m.ID, &m.EventID, &m.Title, &m.Description, &m.OrganizerID, &m.MeetLink, &m.HTMLLink, &m.StartAt, &m.EndAt, &m.Attendees, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Meeting{}, shared.ErrNotFound
		}
		return Meeting{}, err
	}
	return m, nil
}

var _ RepositoryPort = (*Repository)(nil)

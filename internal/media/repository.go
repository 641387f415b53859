package media

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// RepositoryPort defines data access methods for media files.
type RepositoryPort interface {
	ListByMeeting(ctx context.Context, meetingID int64) ([]File, error)
	ListAged(ctx context.Context, capturedBefore time.Time, limit int) ([]File, error)
	UpsertFromDrive(ctx context.Context, meetingID int64, obj DriveObject) (File, error)
	MarkArchived(ctx context.Context, id int64, archiveURL string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const fileColumns = `id, meeting_id, drive_file_id, name, mime_type, size, location, COALESCE(archive_url, ''), captured_at, created_at`

// ListByMeeting returns media records for a meeting.
func (r *Repository) ListByMeeting(ctx context.Context, meetingID int64) ([]File, error) {
	return r.list(ctx, `SELECT `+fileColumns+` FROM media_files WHERE meeting_id = $1 ORDER BY captured_at`, meetingID)
}

// ListAged returns files still on Drive captured before the cutoff.
func (r *Repository) ListAged(ctx context.Context, capturedBefore time.Time, limit int) ([]File, error) {
	return r.list(ctx, `
SELECT `+fileColumns+` FROM media_files
WHERE location = 'drive' AND captured_at < $1
ORDER BY captured_at
LIMIT $2`, capturedBefore, limit)
}

// UpsertFromDrive records a Drive object, converging on drive_file_id so a
// re-sync never duplicates rows.
func (r *Repository) UpsertFromDrive(ctx context.Context, meetingID int64, obj DriveObject) (File, error) {
	var f File
	err := r.pool.QueryRow(ctx, `
INSERT INTO media_files (meeting_id, drive_file_id, name, mime_type, size, location, captured_at, created_at)
VALUES ($1, $2, $3, $4, $5, 'drive', $6, NOW())
ON CONFLICT (drive_file_id) DO UPDATE SET name = EXCLUDED.name, mime_type = EXCLUDED.mime_type, size = EXCLUDED.size
RETURNING `+fileColumns,
		meetingID, obj.ID, obj.Name, obj.MimeType, obj.Size, obj.CreatedAt).
		Scan(&f.ID, &f.MeetingID, &f.DriveFileID, &f.Name, &f.MimeType, &f.Size, &f.Location, &f.ArchiveURL, &f.CapturedAt, &f.CreatedAt)
	return f, err
}

// MarkArchived flips a record to the archive location.
func (r *Repository) MarkArchived(ctx context.Context, id int64, archiveURL string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE media_files SET location = 'archive', archive_url = $2 WHERE id = $1`, id, archiveURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]File, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.MeetingID, &f.DriveFileID, &f.Name, &f.MimeType, &f.Size, &f.Location, &f.ArchiveURL, &f.CapturedAt, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

var _ RepositoryPort = (*Repository)(nil)

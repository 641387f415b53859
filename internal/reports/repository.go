package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort abstracts report queries.
type RepositoryPort interface {
	Rows(ctx context.Context, filter Filter) ([]Row, error)
}

// PGRepository is a PostgreSQL implementation.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository builds PGRepository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Rows runs the filtered meeting/media join.
func (r *PGRepository) Rows(ctx context.Context, filter Filter) ([]Row, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if !filter.From.IsZero() {
		add("m.start_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("m.start_at < $%d", filter.To)
	}
	if filter.OrganizerID != 0 {
		add("m.organizer_id = $%d", filter.OrganizerID)
	}
	if filter.Location != "" {
		add("f.location = $%d", filter.Location)
	}
	query := `
SELECT m.id, m.title, m.organizer_id, COALESCE(u.name, ''), m.start_at, m.end_at,
       COUNT(f.id), COUNT(f.id) FILTER (WHERE f.location = 'archive'), COALESCE(SUM(f.size), 0)
FROM meetings m
JOIN users u ON u.id = m.organizer_id
LEFT JOIN media_files f ON f.meeting_id = m.id`
	if len(conds) > 0 {
		query += "\nWHERE " + strings.Join(conds, " AND ")
	}
	query += "\nGROUP BY m.id, m.title, m.organizer_id, u.name, m.start_at, m.end_at\nORDER BY m.start_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query report rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.MeetingID, &row.Title, &row.OrganizerID, &row.Organizer, &row.StartsAt, &row.EndsAt, &row.MediaCount, &row.ArchivedCount, &row.TotalBytes); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

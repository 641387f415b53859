package reports

import (
	"context"
	"log/slog"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/rbac"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// Service builds filtered reports scoped to the caller's permissions.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService builds Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Build returns the report for the given filter. Callers without the
// org-wide permission are pinned to their own meetings regardless of the
// organizer filter they asked for.
func (s *Service) Build(ctx context.Context, principal rbac.Principal, filter Filter) (Report, error) {
	if !principal.Has(rbac.PermViewAllReports) {
		if !principal.Has(rbac.PermViewOwnReports) {
			return Report{}, shared.ErrForbidden
		}
		filter.OrganizerID = principal.UserID
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return Report{}, shared.ErrValidation
	}

	rows, err := s.repo.Rows(ctx, filter)
	if err != nil {
		return Report{}, err
	}

	var summary Summary
	summary.Meetings = len(rows)
	for _, row := range rows {
		summary.MediaFiles += row.MediaCount
		summary.ArchivedFiles += row.ArchivedCount
		summary.TotalBytes += row.TotalBytes
	}
	if rows == nil {
		rows = []Row{}
	}
	return Report{Rows: rows, Summary: summary}, nil
}

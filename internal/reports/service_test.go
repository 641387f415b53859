package reports

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/rbac"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

type stubReportsRepo struct {
	rows       []Row
	lastFilter Filter
}

func (r *stubReportsRepo) Rows(ctx context.Context, filter Filter) ([]Row, error) {
	r.lastFilter = filter
	var out []Row
	for _, row := range r.rows {
		if filter.OrganizerID != 0 && row.OrganizerID != filter.OrganizerID {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func reportPrincipal(userID int64, permissions ...string) rbac.Principal {
	return rbac.NewPrincipal(userID, "ext", "user@example.com", "User", 1, "role", permissions)
}

func sampleRows() []Row {
	return []Row{
		{MeetingID: 1, OrganizerID: 1, Title: "Standup", MediaCount: 2, ArchivedCount: 1, TotalBytes: 100},
		{MeetingID: 2, OrganizerID: 2, Title: "Review", MediaCount: 3, ArchivedCount: 0, TotalBytes: 50},
	}
}

func TestBuildOrgWideReport(t *testing.T) {
	repo := &stubReportsRepo{rows: sampleRows()}
	svc := NewService(repo, slog.Default())

	report, err := svc.Build(context.Background(), reportPrincipal(1, rbac.PermViewAllReports), Filter{})
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	require.Equal(t, 2, report.Summary.Meetings)
	require.Equal(t, 5, report.Summary.MediaFiles)
	require.Equal(t, 1, report.Summary.ArchivedFiles)
	require.Equal(t, int64(150), report.Summary.TotalBytes)
}

func TestBuildOwnReportsPinnedToPrincipal(t *testing.T) {
	repo := &stubReportsRepo{rows: sampleRows()}
	svc := NewService(repo, slog.Default())

	// The organizer filter the caller asked for is overridden.
	report, err := svc.Build(context.Background(), reportPrincipal(1, rbac.PermViewOwnReports), Filter{OrganizerID: 2})
	require.NoError(t, err)
	require.Equal(t, int64(1), repo.lastFilter.OrganizerID)
	require.Len(t, report.Rows, 1)
	require.Equal(t, int64(1), report.Rows[0].OrganizerID)
}

func TestBuildWithoutReportPermissionIsForbidden(t *testing.T) {
	svc := NewService(&stubReportsRepo{}, slog.Default())

	_, err := svc.Build(context.Background(), reportPrincipal(1, rbac.PermViewMeeting), Filter{})
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestBuildRejectsInvertedWindow(t *testing.T) {
	svc := NewService(&stubReportsRepo{}, slog.Default())
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.Build(context.Background(), reportPrincipal(1, rbac.PermViewAllReports),
		Filter{From: from, To: from.AddDate(0, 0, -1)})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestBuildEmptyResultHasEmptyRowsNotNull(t *testing.T) {
	svc := NewService(&stubReportsRepo{}, slog.Default())

	report, err := svc.Build(context.Background(), reportPrincipal(1, rbac.PermViewAllReports), Filter{})
	require.NoError(t, err)
	require.NotNil(t, report.Rows)
	require.Empty(t, report.Rows)
}

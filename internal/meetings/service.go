package meetings

import (
	"context"
	"log/slog"
	"time"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/rbac"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// Calendar is the port to the calendar provider. Remote failures surface as
// plain errors; no retry policy lives here.
type Calendar interface {
	CreateEvent(ctx context.Context, creds ProviderCredentials, in EventInput) (EventResult, error)
	UpdateEvent(ctx context.Context, creds ProviderCredentials, eventID string, in EventInput) (EventResult, error)
	DeleteEvent(ctx context.Context, creds ProviderCredentials, eventID string) error
}

// InviteNotifier queues meeting notifications to attendees.
type InviteNotifier interface {
	MeetingScheduled(ctx context.Context, attendees []string, title, meetLink string, startAt time.Time) error
}

// Service orchestrates calendar calls against the provider and the local
// mirror.
type Service struct {
	repo     RepositoryPort
	calendar Calendar
	invites  InviteNotifier
	logger   *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, calendar Calendar, invites InviteNotifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, calendar: calendar, invites: invites, logger: logger}
}

// Schedule creates the provider event, mirrors it locally, and queues
// attendee notifications. The provider call happens first: a mirror row
// without an event would be a lie, while a provider event without a mirror
// is repairable.
func (s *Service) Schedule(ctx context.Context, principal rbac.Principal, in EventInput) (Meeting, error) {
	if err := validateInput(in); err != nil {
		return Meeting{}, err
	}
	creds, err := s.repo.OrganizerCredentials(ctx, principal.UserID)
	if err != nil {
		return Meeting{}, err
	}
	result, err := s.calendar.CreateEvent(ctx, creds, in)
	if err != nil {
		return Meeting{}, err
	}
	meeting, err := s.repo.Create(ctx, principal.UserID, result, in)
	if err != nil {
		return Meeting{}, err
	}
	if s.invites != nil && len(in.Attendees) > 0 {
		if err := s.invites.MeetingScheduled(ctx, in.Attendees, meeting.Title, meeting.MeetLink, meeting.StartAt); err != nil {
			s.logger.Warn("queue meeting invites", slog.Int64("meeting_id", meeting.ID), slog.Any("error", err))
		}
	}
	return meeting, nil
}

// Update edits a meeting the principal organizes.
func (s *Service) Update(ctx context.Context, principal rbac.Principal, meetingID int64, in EventInput) (Meeting, error) {
	if err := validateInput(in); err != nil {
		return Meeting{}, err
	}
	meeting, err := s.repo.GetByID(ctx, meetingID)
	if err != nil {
		return Meeting{}, err
	}
	if meeting.OrganizerID != principal.UserID {
		return Meeting{}, shared.ErrForbidden
	}
	creds, err := s.repo.OrganizerCredentials(ctx, principal.UserID)
	if err != nil {
		return Meeting{}, err
	}
	result, err := s.calendar.UpdateEvent(ctx, creds, meeting.EventID, in)
	if err != nil {
		return Meeting{}, err
	}
	return s.repo.Update(ctx, meetingID, result, in)
}

// Delete removes a meeting the principal organizes, provider first.
func (s *Service) Delete(ctx context.Context, principal rbac.Principal, meetingID int64) error {
	meeting, err := s.repo.GetByID(ctx, meetingID)
	if err != nil {
		return err
	}
	if meeting.OrganizerID != principal.UserID {
		return shared.ErrForbidden
	}
	creds, err := s.repo.OrganizerCredentials(ctx, principal.UserID)
	if err != nil {
		return err
	}
	if err := s.calendar.DeleteEvent(ctx, creds, meeting.EventID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, meetingID)
}

// List returns the principal's meetings in the window.
func (s *Service) List(ctx context.Context, principal rbac.Principal, from, to time.Time) ([]Meeting, error) {
	if to.IsZero() {
		to = from.AddDate(0, 1, 0)
	}
	return s.repo.ListByOrganizer(ctx, principal.UserID, from, to)
}

func validateInput(in EventInput) error {
	if in.Title == "" || in.StartAt.IsZero() || in.EndAt.IsZero() || !in.EndAt.After(in.StartAt) {
		return shared.ErrValidation
	}
	return nil
}

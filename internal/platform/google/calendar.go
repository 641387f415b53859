package google

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/meetings"
)

// CalendarClient schedules Google Calendar events with Meet conferencing on
// behalf of the organizer.
type CalendarClient struct {
	verifier *Verifier
}

// NewCalendarClient builds CalendarClient instance.
func NewCalendarClient(verifier *Verifier) *CalendarClient {
	return &CalendarClient{verifier: verifier}
}

func (c *CalendarClient) service(ctx context.Context, creds meetings.ProviderCredentials) (*calendar.Service, error) {
	client := c.verifier.clientFor(ctx, creds.AccessToken, creds.RefreshToken)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	return svc, nil
}

func buildEvent(in meetings.EventInput) *calendar.Event {
	attendees := make([]*calendar.EventAttendee, len(in.Attendees))
	for i, email := range in.Attendees {
		attendees[i] = &calendar.EventAttendee{Email: email}
	}
	return &calendar.Event{
		Summary:     in.Title,
		Description: in.Description,
		Start:       &calendar.EventDateTime{DateTime: in.StartAt.Format("2006-01-02T15:04:05-07:00")},
		End:         &calendar.EventDateTime{DateTime: in.EndAt.Format("2006-01-02T15:04:05-07:00")},
		Attendees:   attendees,
	}
}

func toResult(event *calendar.Event) meetings.EventResult {
	result := meetings.EventResult{EventID: event.Id, HTMLLink: event.HtmlLink}
	if event.ConferenceData != nil {
		for _, entry := range event.ConferenceData.EntryPoints {
			if entry.EntryPointType == "video" {
				result.MeetLink = entry.Uri
				break
			}
		}
	}
	if result.MeetLink == "" {
		result.MeetLink = event.HangoutLink
	}
	return result
}

// CreateEvent inserts the event with a Meet conference attached.
func (c *CalendarClient) CreateEvent(ctx context.Context, creds meetings.ProviderCredentials, in meetings.EventInput) (meetings.EventResult, error) {
	svc, err := c.service(ctx, creds)
	if err != nil {
		return meetings.EventResult{}, err
	}
	event := buildEvent(in)
	event.ConferenceData = &calendar.ConferenceData{
		CreateRequest: &calendar.CreateConferenceRequest{
			RequestId:             uuid.NewString(),
			ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
		},
	}
	created, err := svc.Events.Insert("primary", event).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).Do()
	if err != nil {
		return meetings.EventResult{}, fmt.Errorf("insert event: %w", err)
	}
	return toResult(created), nil
}

// UpdateEvent patches an existing event.
func (c *CalendarClient) UpdateEvent(ctx context.Context, creds meetings.ProviderCredentials, eventID string, in meetings.EventInput) (meetings.EventResult, error) {
	svc, err := c.service(ctx, creds)
	if err != nil {
		return meetings.EventResult{}, err
	}
	updated, err := svc.Events.Patch("primary", eventID, buildEvent(in)).
		SendUpdates("all").
		Context(ctx).Do()
	if err != nil {
		return meetings.EventResult{}, fmt.Errorf("patch event: %w", err)
	}
	return toResult(updated), nil
}

// DeleteEvent removes the event from the organizer's calendar.
func (c *CalendarClient) DeleteEvent(ctx context.Context, creds meetings.ProviderCredentials, eventID string) error {
	svc, err := c.service(ctx, creds)
	if err != nil {
		return err
	}
	if err := svc.Events.Delete("primary", eventID).SendUpdates("all").Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

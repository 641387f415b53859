package meetings

import "time"

// Meeting mirrors a scheduled calendar event for reporting and media
// correlation. EventID is the provider's event identifier.
type Meeting struct {
	ID          int64
	EventID     string
	Title       string
	Description string
	OrganizerID int64
	MeetLink    string
	HTMLLink    string
	StartAt     time.Time
	EndAt       time.Time
	Attendees   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventInput carries the fields sent to the calendar provider.
type EventInput struct {
	Title       string
	Description string
	StartAt     time.Time
	EndAt       time.Time
	Attendees   []string
}

// EventResult is what the provider returns for a created or updated event.
type EventResult struct {
	EventID  string
	MeetLink string
	HTMLLink string
}

// ProviderCredentials are the organizer's stored provider tokens, used to
// act on the calendar on their behalf.
type ProviderCredentials struct {
	AccessToken  string
	RefreshToken string
}

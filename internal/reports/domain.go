package reports

import "time"

// Row is a single report line joining a meeting with its media counts.
type Row struct {
	MeetingID     int64     `json:"meetingId"`
	Title         string    `json:"title"`
	OrganizerID   int64     `json:"organizerId"`
	Organizer     string    `json:"organizer"`
	StartsAt      time.Time `json:"startsAt"`
	EndsAt        time.Time `json:"endsAt"`
	MediaCount    int       `json:"mediaCount"`
	ArchivedCount int       `json:"archivedCount"`
	TotalBytes    int64     `json:"totalBytes"`
}

// Summary aggregates the filtered rows.
type Summary struct {
	Meetings      int   `json:"meetings"`
	MediaFiles    int   `json:"mediaFiles"`
	ArchivedFiles int   `json:"archivedFiles"`
	TotalBytes    int64 `json:"totalBytes"`
}

// Filter narrows the report window.
type Filter struct {
	From        time.Time
	To          time.Time
	OrganizerID int64
	Location    string
}

// Report is the API payload.
type Report struct {
	Rows    []Row   `json:"rows"`
	Summary Summary `json:"summary"`
}

package media

import "time"

// Location tells where the bytes of a media file currently live.
type Location string

const (
	// LocationDrive means the file is still in the meeting's Drive folder.
	LocationDrive Location = "drive"
	// LocationArchive means the file was migrated to the object store.
	LocationArchive Location = "archive"
)

// File is a tracked media capture tied to a meeting.
type File struct {
	ID          int64
	MeetingID   int64
	DriveFileID string
	Name        string
	MimeType    string
	Size        int64
	Location    Location
	ArchiveURL  string
	CapturedAt  time.Time
	CreatedAt   time.Time
}

// DriveObject is a file as listed from the Drive folder.
type DriveObject struct {
	ID         string
	Name       string
	MimeType   string
	Size       int64
	CreatedAt  time.Time
}

// TransferReport summarizes one migration batch. Per-file failures are
// recorded, not fatal; the batch keeps going.
type TransferReport struct {
	Scanned  int
	Migrated int
	Failed   int
	Errors   []string
}

package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Drive is the port to the Drive folder holding meeting captures.
type Drive interface {
	ListFolder(ctx context.Context, folderID string) ([]DriveObject, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// Archive is the port to the object store aged media migrates into.
type Archive interface {
	Store(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// transferConcurrency bounds parallel Drive downloads per batch.
const transferConcurrency = 4

// agedBatchLimit caps how many files one migration run picks up.
const agedBatchLimit = 200

// Service tracks meeting media and migrates aged files off Drive.
type Service struct {
	repo    RepositoryPort
	drive   Drive
	archive Archive
	logger  *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, drive Drive, archive Archive, logger *slog.Logger) *Service {
	return &Service{repo: repo, drive: drive, archive: archive, logger: logger}
}

// ListForMeeting returns the tracked media of a meeting.
func (s *Service) ListForMeeting(ctx context.Context, meetingID int64) ([]File, error) {
	return s.repo.ListByMeeting(ctx, meetingID)
}

// SyncFromDrive lists the meeting's Drive folder and records any captures not
// yet tracked. Re-running converges; nothing is duplicated.
func (s *Service) SyncFromDrive(ctx context.Context, meetingID int64, folderID string) ([]File, error) {
	objects, err := s.drive.ListFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	files := make([]File, 0, len(objects))
	for _, obj := range objects {
		f, err := s.repo.UpsertFromDrive(ctx, meetingID, obj)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// MigrateAged moves files captured before now-olderThan from Drive into the
// archive. Files transfer with bounded concurrency; a failed file is counted
// and logged but never aborts the batch, so one bad object cannot wedge the
// nightly run.
func (s *Service) MigrateAged(ctx context.Context, olderThan time.Duration) (TransferReport, error) {
	cutoff := time.Now().Add(-olderThan)
	aged, err := s.repo.ListAged(ctx, cutoff, agedBatchLimit)
	if err != nil {
		return TransferReport{}, err
	}

	var mu sync.Mutex
	report := TransferReport{Scanned: len(aged)}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(transferConcurrency)
	for _, file := range aged {
		file := file
		g.Go(func() error {
			if err := s.transferOne(ctx, file); err != nil {
				s.logger.Warn("media transfer failed",
					slog.Int64("file_id", file.ID),
					slog.String("drive_file_id", file.DriveFileID),
					slog.Any("error", err))
				mu.Lock()
				report.Failed++
				report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", file.DriveFileID, err))
				mu.Unlock()
				return nil
			}
			mu.Lock()
			report.Migrated++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Service) transferOne(ctx context.Context, file File) error {
	body, err := s.drive.Download(ctx, file.DriveFileID)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer body.Close()

	key := fmt.Sprintf("meetings/%d/%s/%s", file.MeetingID, file.CapturedAt.UTC().Format("2006-01-02"), file.Name)
	url, err := s.archive.Store(ctx, key, body, file.Size, file.MimeType)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := s.repo.MarkArchived(ctx, file.ID, url); err != nil {
		return fmt.Errorf("mark archived: %w", err)
	}
	return nil
}

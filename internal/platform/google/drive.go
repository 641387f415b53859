package google

import (
	"context"
	"fmt"
	"io"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/media"
)

// DriveClient reads meeting captures out of Drive. It runs under a dedicated
// sync account whose refresh credential comes from configuration, so the
// background migration never depends on an interactive session.
type DriveClient struct {
	verifier     *Verifier
	refreshToken string
}

// NewDriveClient builds DriveClient instance.
func NewDriveClient(verifier *Verifier, refreshToken string) *DriveClient {
	return &DriveClient{verifier: verifier, refreshToken: refreshToken}
}

func (c *DriveClient) service(ctx context.Context) (*drive.Service, error) {
	client := c.verifier.clientFor(ctx, "", c.refreshToken)
	svc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return svc, nil
}

// ListFolder pages through the folder's non-trashed files.
func (c *DriveClient) ListFolder(ctx context.Context, folderID string) ([]media.DriveObject, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	var out []media.DriveObject
	call := svc.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID)).
		Fields("nextPageToken", "files(id, name, mimeType, size, createdTime)").
		PageSize(100).
		Context(ctx)
	err = call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			created, _ := time.Parse(time.RFC3339, f.CreatedTime)
			out = append(out, media.DriveObject{
				ID:        f.Id,
				Name:      f.Name,
				MimeType:  f.MimeType,
				Size:      f.Size,
				CreatedAt: created,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list folder %s: %w", folderID, err)
	}
	return out, nil
}

// Download streams the file contents.
func (c *DriveClient) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		if apiErr, ok := err.(*googleapi.Error); ok {
			return nil, fmt.Errorf("download %s: drive returned %d", fileID, apiErr.Code)
		}
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	return resp.Body, nil
}

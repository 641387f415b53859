package media

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/platform/httpx"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/rbac"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
)

// MigrationScheduler queues a migration batch to the background worker.
type MigrationScheduler interface {
	EnqueueMediaMigration(ctx context.Context) error
}

// Handler manages media endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	scheduler MigrationScheduler
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, scheduler MigrationScheduler, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, scheduler: scheduler, rbac: rbac, validator: validator.New()}
}

// MountRoutes registers media routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermViewMedia))
		r.Get("/meetings/{meetingID}", h.listForMeeting)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermTransferMedia))
		r.Post("/meetings/{meetingID}/sync", h.syncFromDrive)
		r.Post("/transfers", h.triggerTransfer)
	})
}

type fileResponse struct {
	ID          int64     `json:"id"`
	MeetingID   int64     `json:"meetingId"`
	DriveFileID string    `json:"driveFileId"`
	Name        string    `json:"name"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	Location    Location  `json:"location"`
	ArchiveURL  string    `json:"archiveUrl,omitempty"`
	CapturedAt  time.Time `json:"capturedAt"`
}

func toResponse(f File) fileResponse {
	return fileResponse{
		ID:          f.ID,
		MeetingID:   f.MeetingID,
		DriveFileID: f.DriveFileID,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		Location:    f.Location,
		ArchiveURL:  f.ArchiveURL,
		CapturedAt:  f.CapturedAt,
	}
}

func (h *Handler) listForMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID, err := strconv.ParseInt(chi.URLParam(r, "meetingID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	files, err := h.service.ListForMeeting(r.Context(), meetingID)
	if err != nil {
		h.logger.Error("list media", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]fileResponse, len(files))
	for i, f := range files {
		out[i] = toResponse(f)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"files": out})
}

type syncPayload struct {
	FolderID string `json:"folderId" validate:"required"`
}

func (h *Handler) syncFromDrive(w http.ResponseWriter, r *http.Request) {
	meetingID, err := strconv.ParseInt(chi.URLParam(r, "meetingID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	var payload syncPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	files, err := h.service.SyncFromDrive(r.Context(), meetingID, payload.FolderID)
	if err != nil {
		h.logger.Error("sync media", slog.Int64("meeting_id", meetingID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]fileResponse, len(files))
	for i, f := range files {
		out[i] = toResponse(f)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"files": out})
}

func (h *Handler) triggerTransfer(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "background worker not configured")
		return
	}
	if err := h.scheduler.EnqueueMediaMigration(r.Context()); err != nil {
		h.logger.Error("enqueue migration", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

package meetings

import (
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

// Handler manages meeting endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbac rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbac, validator: validator.New()}
}

// MountRoutes registers meeting routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermViewMeeting))
		r.Get("/", h.listMeetings)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermCreateMeeting))
		r.Post("/", h.scheduleMeeting)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermEditMeeting))
		r.Put("/{meetingID}", h.updateMeeting)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequirePermission(rbac.PermDeleteMeeting))
		r.Delete("/{meetingID}", h.deleteMeeting)
	})
}

type meetingPayload struct {
	Title       string    `json:"title" validate:"required,min=1,max=256"`
	Description string    `json:"description"`
	StartAt     time.Time `json:"startAt" validate:"required"`
	EndAt       time.Time `json:"endAt" validate:"required"`
	Attendees   []string  `json:"attendees" validate:"dive,email"`
}

type meetingResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	MeetLink    string    `json:"meetLink"`
	HTMLLink    string    `json:"htmlLink,omitempty"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	Attendees   []string  `json:"attendees,omitempty"`
}

func toResponse(m Meeting) meetingResponse {
	return meetingResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		MeetLink:    m.MeetLink,
		HTMLLink:    m.HTMLLink,
		StartAt:     m.StartAt,
		EndAt:       m.EndAt,
		Attendees:   m.Attendees,
	}
}

func (h *Handler) listMeetings(w http.ResponseWriter, r *http.Request) {
	principal, ok := rbac.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrForbidden)
		return
	}
	from, to := parseWindow(r)
	list, err := h.service.List(r.Context(), principal, from, to)
	if err != nil {
		h.logger.Error("list meetings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]meetingResponse, len(list))
	for i, m := range list {
		out[i] = toResponse(m)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"meetings": out})
}

func (h *Handler) scheduleMeeting(w http.ResponseWriter, r *http.Request) {
	principal, in, ok := h.decode(w, r)
	if !ok {
		return
	}
	meeting, err := h.service.Schedule(r.Context(), principal, in)
	if err != nil {
		h.logger.Error("schedule meeting", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(meeting))
}

func (h *Handler) updateMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "meetingID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	principal, in, ok := h.decode(w, r)
	if !ok {
		return
	}
	meeting, err := h.service.Update(r.Context(), principal, id, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(meeting))
}

func (h *Handler) deleteMeeting(w http.ResponseWriter, r *http.Request) {
	principal, ok := rbac.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrForbidden)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "meetingID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return
	}
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (rbac.Principal, EventInput, bool) {
	principal, ok := rbac.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrForbidden)
		return rbac.Principal{}, EventInput{}, false
	}
	var payload meetingPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.RespondError(w, shared.ErrValidation)
		return rbac.Principal{}, EventInput{}, false
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return rbac.Principal{}, EventInput{}, false
	}
	return principal, EventInput{
		Title:       payload.Title,
		Description: payload.Description,
		StartAt:     payload.StartAt,
		EndAt:       payload.EndAt,
		Attendees:   payload.Attendees,
	}, true
}

func parseWindow(r *http.Request) (time.Time, time.Time) {
	from := time.Now().AddDate(0, 0, -7)
	to := time.Now().AddDate(0, 1, 0)
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}
	return from, to
}

package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/auth"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/media"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/meetings"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/observability"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/reports"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/roles"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/users"
	"github.com/phaserunner03/meetAndMediaSync-sub000/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	Authenticator   auth.Authenticator
	AuthHandler     *auth.Handler
	RolesHandler    *roles.Handler
	UsersHandler    *users.Handler
	MeetingsHandler *meetings.Handler
	MediaHandler    *media.Handler
	ReportsHandler  *reports.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router. Everything below the auth group runs
// behind the bearer-token authenticator; per-route permission checks live in
// the handlers themselves.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.Authenticator.Authenticate)

		r.Route("/session", params.AuthHandler.MountSessionRoutes)
		r.Route("/roles", params.RolesHandler.MountRoutes)
		r.Route("/users", params.UsersHandler.MountRoutes)
		r.Route("/meetings", params.MeetingsHandler.MountRoutes)
		r.Route("/media", params.MediaHandler.MountRoutes)
		r.Route("/reports", params.ReportsHandler.MountRoutes)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/app"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/auth"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/media"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/meetings"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/notify"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/observability"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/platform/cache"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/platform/db"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/platform/google"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/platform/storage"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/rbac"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/reports"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/roles"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/shared"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/users"
	"github.com/phaserunner03/meetAndMediaSync-sub000/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalog := rbac.DefaultCatalog()
	rbacMiddleware := rbac.Middleware{Logger: logger}
	auditLogger := shared.NewAuditLogger(dbpool)

	rolesRepo := roles.NewRepository(dbpool)
	// The fallback role must exist before anything can be deleted onto it.
	if _, err := rolesRepo.GetByName(ctx, cfg.FallbackRoleName); err != nil {
		logger.Error("fallback role missing, run scripts/seed first",
			slog.String("role", cfg.FallbackRoleName), slog.Any("error", err))
		os.Exit(1)
	}
	rolesService := roles.NewService(rolesRepo, catalog, cfg.FallbackRoleName, cfg.BootstrapRoleName, auditLogger, logger)
	rolesHandler := roles.NewHandler(logger, rolesService, rbacMiddleware)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, catalog, auditLogger, logger)
	usersHandler := users.NewHandler(logger, usersService, rbacMiddleware)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	notifier := notify.NewNotifier(redisClient, jobsClient, cfg.AdminEmail, logger)

	verifier := google.NewVerifier(google.OAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})

	tokenService := auth.NewTokenService(cfg.TokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokenService, verifier, notifier, cfg.FallbackRoleName, logger)
	authHandler := auth.NewHandler(logger, authService, auth.CookieConfig{
		AccessName:  cfg.AccessCookieName,
		RefreshName: cfg.RefreshCookieName,
		Secure:      cfg.IsProduction(),
		SameSite:    cfg.CookieSameSite(),
	})
	authenticator := auth.Authenticator{Service: authService, CookieName: cfg.AccessCookieName, Logger: logger}

	calendarClient := google.NewCalendarClient(verifier)
	meetingsRepo := meetings.NewRepository(dbpool)
	meetingsService := meetings.NewService(meetingsRepo, calendarClient, notifier, logger)
	meetingsHandler := meetings.NewHandler(logger, meetingsService, rbacMiddleware)

	driveClient := google.NewDriveClient(verifier, cfg.DriveRefreshToken)
	archive, err := storage.NewArchive(ctx, storage.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		UseSSL:    cfg.MinioUseSSL,
		Bucket:    cfg.MinioBucket,
	})
	if err != nil {
		logger.Error("connect object store", slog.Any("error", err))
		os.Exit(1)
	}
	mediaRepo := media.NewRepository(dbpool)
	mediaService := media.NewService(mediaRepo, driveClient, archive, logger)
	mediaHandler := media.NewHandler(logger, mediaService, jobsClient, rbacMiddleware)

	reportsRepo := reports.NewPGRepository(dbpool)
	reportsService := reports.NewService(reportsRepo, logger)
	reportsHandler := reports.NewHandler(logger, reportsService, rbacMiddleware)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Authenticator:   authenticator,
		AuthHandler:     authHandler,
		RolesHandler:    rolesHandler,
		UsersHandler:    usersHandler,
		MeetingsHandler: meetingsHandler,
		MediaHandler:    mediaHandler,
		ReportsHandler:  reportsHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

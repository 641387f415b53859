package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/app"
	jobmetrics "github.com/phaserunner03/meetAndMediaSync-sub000/internal/jobs"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/media"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/platform/db"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/platform/google"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/platform/storage"
	"github.com/phaserunner03/meetAndMediaSync-sub000/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	verifier := google.NewVerifier(google.OAuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
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

	mediaRepo := media.NewRepository(pool)
	mediaService := media.NewService(mediaRepo, driveClient, archive, logger)

	metrics := jobmetrics.NewMetrics(nil)
	mailer := jobs.SMTPMailer{
		Addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		From: cfg.SMTPFrom,
	}

	migrateTask, err := jobs.NewMediaMigrateTask(jobs.MediaMigratePayload{})
	if err != nil {
		logger.Error("build migrate task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeSendEmail, Handler: jobs.NewSendEmailHandler(mailer, logger)},
			{Type: jobs.TaskTypeMediaMigrate, Handler: jobs.NewMediaMigrateHandler(mediaService, metrics, cfg.MediaMaxAge, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.MediaMigrateCron, Task: migrateTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

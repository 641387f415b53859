package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/phaserunner03/meetAndMediaSync-sub000/internal/jobs"
	"github.com/phaserunner03/meetAndMediaSync-sub000/internal/media"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeMediaMigrate moves aged Drive media into the archive store.
	TaskTypeMediaMigrate = "media:migrate"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewSendEmailHandler builds the mail:send handler around the given mailer.
func NewSendEmailHandler(mailer Mailer, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := mailer.Send(ctx, payload.To, payload.Subject, payload.Body); err != nil {
			logger.Warn("send email", slog.String("to", payload.To), slog.Any("error", err))
			return err
		}
		return nil
	}
}

// MediaMigratePayload bounds the migration batch.
type MediaMigratePayload struct {
	OlderThanHours int `json:"olderThanHours"`
}

// NewMediaMigrateTask constructs an Asynq task.
func NewMediaMigrateTask(payload MediaMigratePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeMediaMigrate, data), nil
}

// NewMediaMigrateHandler builds the media:migrate handler around the media
// service. defaultMaxAge applies when the payload carries no bound.
func NewMediaMigrateHandler(svc *media.Service, metrics *jobmetrics.Metrics, defaultMaxAge time.Duration, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload MediaMigratePayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		maxAge := defaultMaxAge
		if payload.OlderThanHours > 0 {
			maxAge = time.Duration(payload.OlderThanHours) * time.Hour
		}
		tracker := metrics.Track(TaskTypeMediaMigrate)
		report, err := svc.MigrateAged(ctx, maxAge)
		metrics.AddMigratedFiles("migrated", report.Migrated)
		metrics.AddMigratedFiles("failed", report.Failed)
		logger.Info("media migration finished",
			slog.Int("scanned", report.Scanned),
			slog.Int("migrated", report.Migrated),
			slog.Int("failed", report.Failed))
		return tracker.End(err)
	}
}

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/phaserunner03/meetAndMediaSync-sub000/jobs"
)

// Notifier fans user and meeting events out to email via the job queue. The
// provision notice is deduplicated in Redis so repeated first-login races
// produce a single admin email per external identity.
type Notifier struct {
	redis      *redis.Client
	enqueue    func(ctx context.Context, payload jobs.SendEmailPayload) error
	adminEmail string
	logger     *slog.Logger
}

// NewNotifier builds Notifier on top of the jobs client.
func NewNotifier(rdb *redis.Client, client *jobs.Client, adminEmail string, logger *slog.Logger) *Notifier {
	return &Notifier{
		redis: rdb,
		enqueue: func(ctx context.Context, payload jobs.SendEmailPayload) error {
			_, err := client.EnqueueSendEmail(ctx, payload)
			return err
		},
		adminEmail: adminEmail,
		logger:     logger,
	}
}

const provisionDedupTTL = 30 * 24 * time.Hour

// UserProvisioned emails the admin once per newly provisioned identity.
func (n *Notifier) UserProvisioned(ctx context.Context, externalID, email string) error {
	key := "notify:provisioned:" + externalID
	ok, err := n.redis.SetNX(ctx, key, email, provisionDedupTTL).Result()
	if err != nil {
		return fmt.Errorf("provision dedup: %w", err)
	}
	if !ok {
		return nil
	}
	return n.enqueue(ctx, jobs.SendEmailPayload{
		To:      n.adminEmail,
		Subject: "New user awaiting access",
		Body:    fmt.Sprintf("%s signed in for the first time and was placed in the no-access role. Assign a role to grant access.", email),
	})
}

// MeetingScheduled emails each attendee their invite.
func (n *Notifier) MeetingScheduled(ctx context.Context, attendees []string, title, meetLink string, startAt time.Time) error {
	body := fmt.Sprintf("You are invited to %q on %s.\nJoin: %s", title, startAt.Format(time.RFC1123), meetLink)
	for _, attendee := range attendees {
		if err := n.enqueue(ctx, jobs.SendEmailPayload{
			To:      attendee,
			Subject: "Meeting invitation: " + title,
			Body:    body,
		}); err != nil {
			n.logger.Warn("queue invite", slog.String("attendee", attendee), slog.Any("error", err))
		}
	}
	return nil
}

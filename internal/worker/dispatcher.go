package worker

import (
	"context"
	"encoding/json"
	"time"

	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NotificationJob is the payload of a QueueNotification job.
type NotificationJob struct {
	NotificationID string `json:"notification_id"`
}

// Dispatcher records outgoing notifications and enqueues them for the
// worker pool. A row whose push fails is left for the retry cron.
type Dispatcher struct {
	rdb  *redis.Client
	repo repository.NotificationRepository
	now  func() time.Time
}

func NewDispatcher(rdb *redis.Client, repo repository.NotificationRepository) *Dispatcher {
	return &Dispatcher{rdb: rdb, repo: repo, now: time.Now}
}

func (d *Dispatcher) QueueSMS(ctx context.Context, venteID *uuid.UUID, phone, text string) error {
	return d.queue(ctx, &model.Notification{
		VenteID:   venteID,
		Channel:   model.ChannelSMS,
		Recipient: phone,
		Body:      text,
	})
}

func (d *Dispatcher) QueueEmail(ctx context.Context, venteID *uuid.UUID, to, subject, body string, attachInvoice bool) error {
	return d.queue(ctx, &model.Notification{
		VenteID:   venteID,
		Channel:   model.ChannelEmail,
		Recipient: to,
		Subject:   subject,
		Body:      body,
		Invoice:   attachInvoice && venteID != nil,
	})
}

func (d *Dispatcher) queue(ctx context.Context, n *model.Notification) error {
	n.Status = model.NotificationPending
	if err := d.repo.Create(ctx, n); err != nil {
		return err
	}
	if err := d.enqueue(ctx, QueueNotification, JobNotification, NotificationJob{NotificationID: n.ID.String()}); err != nil {
		log.Warn().Err(err).Str("notification_id", n.ID.String()).Msg("dispatcher: enqueue failed, left for retry cron")
		next := d.now()
		n.NextRetryAt = &next
		return d.repo.Update(ctx, n)
	}
	return nil
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

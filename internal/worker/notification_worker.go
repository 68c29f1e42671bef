package worker

// notification_worker.go
// Delivers queued SMS and email notifications. Each channel goes through its
// own circuit breaker; a failed delivery is handed over to the retry cron by
// setting next_retry_at on the notification row.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"boutique/internal/infra"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// MaxNotificationRetries is the number of cron retries before a notification
// is marked as error and moved to the DLQ.
const MaxNotificationRetries = 5

const deliveryAttempts = 3

// retryBaseDelay is the first in-process backoff step of withRetry.
var retryBaseDelay = time.Second

var errChannelDisabled = errors.New("canal de notification non configuré")

// SMSSender is satisfied by *infra.SMSClient.
type SMSSender interface {
	Enabled() bool
	Send(ctx context.Context, to, text string) (*infra.SMSResult, error)
}

// MailSender is satisfied by *infra.Mailer.
type MailSender interface {
	Enabled() bool
	Send(to, subject, body, attachment string) error
}

// InvoiceSaver writes the invoice PDF of an order and returns its path.
// Satisfied by *service.Invoices.
type InvoiceSaver interface {
	Save(ctx context.Context, venteID uuid.UUID) (string, error)
}

type NotificationWorker struct {
	repo     repository.NotificationRepository
	sms      SMSSender
	mailer   MailSender
	invoices InvoiceSaver
	smsCB    *infra.CircuitBreaker
	mailCB   *infra.CircuitBreaker
	rdb      *redis.Client
	now      func() time.Time
}

// NewNotificationWorker builds the worker. invoices may be nil, in which case
// order emails go out without their invoice.
func NewNotificationWorker(
	repo repository.NotificationRepository,
	sms SMSSender,
	mailer MailSender,
	invoices InvoiceSaver,
	smsCB, mailCB *infra.CircuitBreaker,
	rdb *redis.Client,
) *NotificationWorker {
	return &NotificationWorker{
		repo:     repo,
		sms:      sms,
		mailer:   mailer,
		invoices: invoices,
		smsCB:    smsCB,
		mailCB:   mailCB,
		rdb:      rdb,
		now:      time.Now,
	}
}

// Process handles one QueueNotification job.
func (w *NotificationWorker) Process(ctx context.Context, payload json.RawMessage) {
	var job NotificationJob
	if err := json.Unmarshal(payload, &job); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return
	}
	id, err := uuid.Parse(job.NotificationID)
	if err != nil {
		log.Error().Str("notification_id", job.NotificationID).Msg("notification_worker: invalid notification id")
		return
	}
	w.Deliver(ctx, id)
}

// Deliver sends the notification with up to three in-process attempts.
func (w *NotificationWorker) Deliver(ctx context.Context, id uuid.UUID) {
	n, err := w.repo.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("notification_id", id.String()).Msg("notification_worker: notification not found")
		return
	}
	if n.Status != model.NotificationPending {
		return
	}
	w.attachInvoice(ctx, n)

	err = withRetry(ctx, deliveryAttempts, func(attempt int) error {
		if attempt > 0 {
			log.Warn().Int("attempt", attempt+1).Str("notification_id", n.ID.String()).Msg("notification_worker: retrying delivery")
		}
		return w.send(ctx, n)
	})
	w.record(ctx, n, err)
}

// attachInvoice renders the order invoice once; the path is persisted with the
// outcome so cron retries reuse the file. A rendering failure only drops the
// attachment.
func (w *NotificationWorker) attachInvoice(ctx context.Context, n *model.Notification) {
	if !n.Invoice || n.Attachment != nil || n.VenteID == nil || w.invoices == nil {
		return
	}
	path, err := w.invoices.Save(ctx, *n.VenteID)
	if err != nil {
		log.Warn().Err(err).Str("notification_id", n.ID.String()).Msg("notification_worker: invoice not rendered, sending without it")
		return
	}
	n.Attachment = &path
}

// breaker returns the circuit breaker guarding the notification's channel.
func (w *NotificationWorker) breaker(channel string) *infra.CircuitBreaker {
	if channel == model.ChannelSMS {
		return w.smsCB
	}
	return w.mailCB
}

func (w *NotificationWorker) send(ctx context.Context, n *model.Notification) error {
	switch n.Channel {
	case model.ChannelSMS:
		if !w.sms.Enabled() {
			return errChannelDisabled
		}
		return w.smsCB.Execute(func() error {
			_, err := w.sms.Send(ctx, n.Recipient, n.Body)
			return err
		})
	case model.ChannelEmail:
		if !w.mailer.Enabled() {
			return errChannelDisabled
		}
		attachment := ""
		if n.Attachment != nil {
			attachment = *n.Attachment
		}
		return w.mailCB.Execute(func() error {
			return w.mailer.Send(n.Recipient, n.Subject, n.Body, attachment)
		})
	default:
		return fmt.Errorf("canal inconnu: %s", n.Channel)
	}
}

// record persists the outcome of a delivery attempt. Failures are scheduled
// for the retry cron until MaxNotificationRetries, then dead-lettered.
func (w *NotificationWorker) record(ctx context.Context, n *model.Notification, sendErr error) {
	if sendErr == nil {
		n.Status = model.NotificationSent
		n.NextRetryAt = nil
		n.LastError = nil
		if err := w.repo.Update(ctx, n); err != nil {
			log.Error().Err(err).Str("notification_id", n.ID.String()).Msg("notification_worker: failed to mark sent")
			return
		}
		log.Info().Str("notification_id", n.ID.String()).Str("channel", n.Channel).Msg("notification_worker: delivered")
		return
	}

	errMsg := sendErr.Error()
	n.LastError = &errMsg

	if errors.Is(sendErr, errChannelDisabled) {
		// no point retrying until the channel is configured
		n.Status = model.NotificationError
		n.NextRetryAt = nil
		log.Warn().Str("notification_id", n.ID.String()).Str("channel", n.Channel).Msg("notification_worker: channel disabled")
		_ = w.repo.Update(ctx, n)
		return
	}

	if n.RetryCount >= MaxNotificationRetries {
		n.Status = model.NotificationError
		n.NextRetryAt = nil
		log.Error().
			Str("notification_id", n.ID.String()).
			Int("retries", n.RetryCount).
			Msg("notification_worker: max retries exceeded, moving to error/DLQ")

		payload, _ := json.Marshal(NotificationJob{NotificationID: n.ID.String()})
		SendToDLQ(ctx, w.rdb, QueueNotification, JobNotification, payload,
			fmt.Sprintf("max retries (%d) exceeded: %s", MaxNotificationRetries, errMsg),
			n.RetryCount)
	} else {
		next := w.now().Add(computeRetryBackoff(n.RetryCount + 1))
		n.NextRetryAt = &next
		log.Warn().
			Err(sendErr).
			Str("notification_id", n.ID.String()).
			Int("retry_count", n.RetryCount).
			Time("next_retry_at", next).
			Msg("notification_worker: delivery failed, scheduled retry")
	}
	if err := w.repo.Update(ctx, n); err != nil {
		log.Error().Err(err).Str("notification_id", n.ID.String()).Msg("notification_worker: failed to record failure")
	}
}

// withRetry executes fn up to maxAttempts times with exponential backoff.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			// 1s, 2s … (exponential backoff)
			wait := time.Duration(1<<uint(i-1)) * retryBaseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			if errors.Is(err, errChannelDisabled) || errors.Is(err, infra.ErrCircuitOpen) {
				return err
			}
			continue
		}
		return nil
	}
	return lastErr
}

package worker

// retry_cron.go
// Background goroutine that periodically re-attempts notifications stuck in
// status='pending' with a next_retry_at in the past. A channel whose circuit
// breaker is open is skipped for the tick.

import (
	"context"
	"time"

	"boutique/internal/infra"
	"boutique/internal/model"
	"boutique/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10

	retryBackoffBase = time.Minute
	retryBackoffMax  = time.Hour
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	Repo   repository.NotificationRepository
	Worker *NotificationWorker
}

// StartRetryCron launches a background goroutine that ticks every 30s and
// retries due notifications. It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	due, err := cfg.Repo.ListRetryable(ctx, cfg.Worker.now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(due) == 0 {
		return
	}

	log.Info().Int("count", len(due)).Msg("retry_cron: processing pending notifications")

	for i := range due {
		n := &due[i]
		// the breaker may have tripped mid-batch
		if cfg.Worker.breaker(n.Channel).State() == infra.CBOpen {
			log.Debug().Str("channel", n.Channel).Msg("retry_cron: circuit breaker is open, skipping")
			continue
		}
		if n.Status != model.NotificationPending {
			continue
		}
		n.RetryCount++
		cfg.Worker.record(ctx, n, cfg.Worker.send(ctx, n))
	}
}

// computeRetryBackoff returns the delay before retry number n (1-based):
// 1m, 2m, 4m … capped at one hour.
func computeRetryBackoff(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	if n > 7 {
		return retryBackoffMax
	}
	d := retryBackoffBase << uint(n-1)
	if d > retryBackoffMax {
		return retryBackoffMax
	}
	return d
}

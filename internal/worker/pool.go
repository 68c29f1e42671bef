package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueNotification = "jobs:notification"

// JobNotification is the job type routed to NotificationWorker.
const JobNotification = "notification"

const brpopTimeout = 5 * time.Second

// Backoff bounds after a failed BRPOP (redis unreachable, auth, ...).
var (
	pollErrorBackoff    = time.Second
	maxPollErrorBackoff = 30 * time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JobHandler processes the payload of one job type.
type JobHandler interface {
	Process(ctx context.Context, payload json.RawMessage)
}

// StartWorkerPool launches numWorkers goroutines consuming the notification
// queue. Each goroutine blocks on BRPOP and is idle between jobs.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]JobHandler) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers map[string]JobHandler) {
	var backoff time.Duration
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
		}

		// waits up to brpopTimeout then loops to check ctx
		result, err := rdb.BRPop(ctx, brpopTimeout, QueueNotification).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			backoff = nextPollBackoff(backoff)
			log.Error().Err(err).Int("worker", id).Dur("backoff", backoff).Msg("worker: brpop failed")
			select {
			case <-ctx.Done():
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0
		if len(result) < 2 {
			continue
		}
		processJob(ctx, result[0], result[1], handlers)
	}
}

// nextPollBackoff doubles the previous wait, from pollErrorBackoff up to
// maxPollErrorBackoff.
func nextPollBackoff(prev time.Duration) time.Duration {
	if prev <= 0 {
		return pollErrorBackoff
	}
	if next := 2 * prev; next < maxPollErrorBackoff {
		return next
	}
	return maxPollErrorBackoff
}

func processJob(ctx context.Context, queue, raw string, handlers map[string]JobHandler) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h, ok := handlers[job.Type]
	if !ok {
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("no handler for job type")
		return
	}
	h.Process(ctx, job.Payload)
}

package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// countingHook counts the commands sent through a redis client.
type countingHook struct{ n atomic.Int64 }

func (h *countingHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *countingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.n.Add(1)
		return next(ctx, cmd)
	}
}

func (h *countingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestNextPollBackoff(t *testing.T) {
	assert.Equal(t, pollErrorBackoff, nextPollBackoff(0))
	assert.Equal(t, 2*pollErrorBackoff, nextPollBackoff(pollErrorBackoff))
	assert.Equal(t, maxPollErrorBackoff, nextPollBackoff(maxPollErrorBackoff))
	assert.Equal(t, maxPollErrorBackoff, nextPollBackoff(maxPollErrorBackoff-time.Millisecond))
}

func TestRunWorker_BacksOffWhenRedisIsDown(t *testing.T) {
	pollErrorBackoff = 50 * time.Millisecond
	defer func() { pollErrorBackoff = time.Second }()

	// nothing listens on port 1
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer rdb.Close()
	hook := &countingHook{}
	rdb.AddHook(hook)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runWorker(ctx, rdb, 0, nil)
		close(done)
	}()

	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
	// 50ms, 100ms, 200ms: a handful of attempts, not a spin
	assert.LessOrEqual(t, hook.n.Load(), int64(5))
	assert.GreaterOrEqual(t, hook.n.Load(), int64(1))
}

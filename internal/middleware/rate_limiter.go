package middleware

import (
	"net/http"
	"sync"
	"time"

	"boutique/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// windowLimiter counts requests per key within fixed windows.
type windowLimiter struct {
	name   string
	limit  int
	window time.Duration

	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

type windowEntry struct {
	count     int
	windowEnd time.Time
}

func newWindowLimiter(name string, limit int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		name:    name,
		limit:   limit,
		window:  window,
		entries: make(map[string]*windowEntry),
		now:     time.Now,
	}
}

// allow records one hit for key and reports whether it is within the limit,
// plus the end of the current window.
func (l *windowLimiter) allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

func (l *windowLimiter) purge() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	purged := 0
	for key, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, key)
			purged++
		}
	}
	return purged
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Expired entries are dropped periodically so IPs that never return do not
// accumulate.

const purgeInterval = 5 * time.Minute

var (
	limitersMu sync.Mutex
	limiters   []*windowLimiter
	purgeOnce  sync.Once
)

func register(l *windowLimiter) {
	limitersMu.Lock()
	limiters = append(limiters, l)
	limitersMu.Unlock()
	purgeOnce.Do(func() { go purgeExpiredEntries() })
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		limitersMu.Lock()
		for _, l := range limiters {
			if n := l.purge(); n > 0 {
				log.Debug().Str("limiter", l.name).Int("purged", n).Msg("rate limiter entries purged")
			}
		}
		limitersMu.Unlock()
	}
}

// LoginRateLimiter limits credential endpoints (admin and customer login,
// customer registration) to 20 attempts per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newWindowLimiter("login", 20, time.Minute)
	register(l)
	return func(c *gin.Context) {
		if ok, _ := l.allow(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Trop de tentatives de connexion. Réessayez dans une minute."))
			return
		}
		c.Next()
	}
}

// RateLimiter returns a general-purpose per-IP limiter.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newWindowLimiter("api", limit, window)
	register(l)
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Trop de requêtes. Réessayez dans un instant."))
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/B0bbyBrown/ExpendiForge/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// windowEntry tracks request counts per IP within a sliding window.
type windowEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type ipLimiter struct {
	limit   int
	window  time.Duration
	message string

	mu      sync.Mutex
	entries map[string]*windowEntry
}

// RateLimiter returns a sliding-window per-IP rate limiter. Each call owns
// its own counter map and purge goroutine, so the login limiter and the
// general API limiter don't share windows.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := &ipLimiter{
		limit:   limit,
		window:  window,
		message: "Too many requests. Try again in a moment.",
		entries: make(map[string]*windowEntry),
	}
	go l.purgeLoop()
	return l.handle
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := &ipLimiter{
		limit:   20,
		window:  time.Minute,
		message: "Too many login attempts. Try again in 1 minute.",
		entries: make(map[string]*windowEntry),
	}
	go l.purgeLoop()
	return l.handle
}

func (l *ipLimiter) handle(c *gin.Context) {
	ip := c.ClientIP()

	l.mu.Lock()
	entry, exists := l.entries[ip]
	if !exists {
		entry = &windowEntry{}
		l.entries[ip] = entry
	}
	l.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(l.window)
	}

	entry.count++
	if entry.count > l.limit {
		c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
		return
	}
	c.Next()
}

// purgeLoop periodically drops expired entries so IPs that never return
// don't accumulate forever.
func (l *ipLimiter) purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0

		l.mu.Lock()
		for ip, entry := range l.entries {
			entry.mu.Lock()
			if now.After(entry.windowEnd) {
				delete(l.entries, ip)
				purged++
			}
			entry.mu.Unlock()
		}
		remaining := len(l.entries)
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("purged", purged).
				Int("remaining", remaining).
				Msg("rate limiter entries purged")
		}
	}
}

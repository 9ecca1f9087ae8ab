package middleware

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"Tasker/internal/apperr"

	"github.com/gin-gonic/gin"
)

// RateLimitResult is the outcome of one admission check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

type counter struct {
	count       int
	windowStart time.Time
}

// RateLimiter is a process-local fixed-window limiter: one counter per
// client key, reset wholesale when the window rolls over. The counter map is
// owned here and swept by an explicitly started background task; there is no
// cross-process coordination.
type RateLimiter struct {
	limit     int
	window    time.Duration
	retention time.Duration
	sweepTick time.Duration

	mu       sync.Mutex
	counters map[string]*counter

	now  func() time.Time
	log  *slog.Logger
	stop context.CancelFunc
	done chan struct{}
}

func NewRateLimiter(limit int, window, retention, sweepTick time.Duration, log *slog.Logger) *RateLimiter {
	if log == nil {
		log = slog.Default()
	}
	if retention < window {
		retention = 2 * window
	}
	return &RateLimiter{
		limit:     limit,
		window:    window,
		retention: retention,
		sweepTick: sweepTick,
		counters:  make(map[string]*counter),
		now:       time.Now,
		log:       log,
	}
}

// SetClock overrides the time source, for tests.
func (l *RateLimiter) SetClock(now func() time.Time) { l.now = now }

// Allow counts one request for key. If the window has elapsed since the
// counter's start, the counter resets to 1 with a fresh window instead of
// incrementing. The map lock makes increments atomic, so a racing pair of
// requests cannot both slip past the limit.
func (l *RateLimiter) Allow(key string) RateLimitResult {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	ct, ok := l.counters[key]
	if !ok || now.Sub(ct.windowStart) >= l.window {
		ct = &counter{count: 1, windowStart: now}
		l.counters[key] = ct
	} else {
		ct.count++
	}

	resetIn := ct.windowStart.Add(l.window).Sub(now)
	remaining := l.limit - ct.count
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitResult{
		Allowed:   ct.count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetIn:   resetIn,
	}
}

// Start launches the background sweep. The sweep evicts counters whose
// window started before the retention horizon, active or not, to bound
// memory. Evicting a counter a request is about to touch is harmless: the
// request recreates it.
func (l *RateLimiter) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	l.stop = cancel
	l.done = make(chan struct{})
	go func() {
		defer close(l.done)
		ticker := time.NewTicker(l.sweepTick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := l.Sweep(); n > 0 {
					l.log.Debug("rate limit sweep", "evicted", n)
				}
			}
		}
	}()
}

// Stop cancels the sweep and waits for it to exit.
func (l *RateLimiter) Stop() {
	if l.stop == nil {
		return
	}
	l.stop()
	<-l.done
}

// Sweep removes stale counters and returns how many were evicted.
func (l *RateLimiter) Sweep() int {
	horizon := l.now().Add(-l.retention)
	l.mu.Lock()
	defer l.mu.Unlock()
	evicted := 0
	for key, ct := range l.counters {
		if ct.windowStart.Before(horizon) {
			delete(l.counters, key)
			evicted++
		}
	}
	return evicted
}

// clientKey prefers the authenticated principal when an earlier stage has
// established one, falling back to the source IP so unauthenticated clients
// are still throttled.
func clientKey(c *gin.Context) string {
	if p := Principal(c); p != "" {
		return "user:" + p
	}
	return "ip:" + c.ClientIP()
}

// RateLimit enforces the fixed-window limit and attaches X-RateLimit-*
// headers. Paths matching an exempt prefix skip straight through. Over the
// limit, the request is answered 429 with Retry-After and never reaches
// downstream stages.
func RateLimit(l *RateLimiter, exempt ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range exempt {
			if path == p || strings.HasPrefix(path, p+"/") {
				c.Next()
				return
			}
		}

		res := l.Allow(clientKey(c))
		resetSec := int64(res.ResetIn.Seconds())
		if res.ResetIn > time.Duration(resetSec)*time.Second {
			resetSec++ // ceil
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetSec, 10))

		if !res.Allowed {
			c.Header("Retry-After", strconv.FormatInt(resetSec, 10))
			Abort(c, apperr.KindRateLimited, "Rate limit exceeded. Try again later.")
			return
		}
		c.Next()
	}
}

package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/tokengate/internal/errors"
	"github.com/allisson/tokengate/internal/httputil"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterIdleThreshold   = time.Hour
)

// limiterStore holds per-key token bucket limiters. Stale entries are
// evicted in the background so the map does not grow without bound.
type limiterStore struct {
	limiters sync.Map // map[string]*limiterEntry
	rps      float64
	burst    int
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	store := &limiterStore{rps: rps, burst: burst}
	go store.cleanupStale(context.Background(), limiterCleanupInterval)
	return store
}

func (s *limiterStore) getLimiter(key string) *rate.Limiter {
	if val, ok := s.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(s.rps), s.burst),
		lastAccess: time.Now(),
	}
	actual, _ := s.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

func (s *limiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := time.Now().Add(-limiterIdleThreshold)
			s.limiters.Range(func(key, value interface{}) bool {
				entry := value.(*limiterEntry)
				entry.mu.Lock()
				stale := entry.lastAccess.Before(threshold)
				entry.mu.Unlock()
				if stale {
					s.limiters.Delete(key)
				}
				return true
			})
		}
	}
}

func rejectRateLimited(c *gin.Context, limiter *rate.Limiter, logger *slog.Logger, key string) {
	reservation := limiter.Reserve()
	retryAfter := int(reservation.Delay().Seconds())
	reservation.Cancel()

	logger.Debug("rate limit exceeded",
		slog.String("key", key),
		slog.Int("retry_after", retryAfter),
	)

	c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":   "rate_limit_exceeded",
		"message": "Too many requests. Please retry after the specified delay.",
	})
	c.Abort()
}

// RateLimitMiddleware enforces a per-account rate limit. It must run after
// HMACAuthMiddleware, which puts the authenticated account in the context.
func RateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore(rps, burst)

	return func(c *gin.Context) {
		account, ok := GetAccount(c.Request.Context())
		if !ok || account == nil {
			logger.Error("rate limit middleware: no authenticated account in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		limiter := store.getLimiter(account.ID.String())
		if !limiter.Allow() {
			rejectRateLimited(c, limiter, logger, account.ID.String())
			return
		}

		c.Next()
	}
}

// IPRateLimitMiddleware enforces a per-client-IP rate limit. Used on
// unauthenticated endpoints such as account registration.
func IPRateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := newLimiterStore(rps, burst)

	return func(c *gin.Context) {
		limiter := store.getLimiter(c.ClientIP())
		if !limiter.Allow() {
			rejectRateLimited(c, limiter, logger, c.ClientIP())
			return
		}

		c.Next()
	}
}

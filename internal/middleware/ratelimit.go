package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// KeyFunc derives the throttle bucket for a request.
type KeyFunc func(*gin.Context) string

// ByClientIP buckets unauthenticated traffic by source address.
func ByClientIP(c *gin.Context) string {
	return c.ClientIP()
}

// ByUser buckets by the authenticated user so one chatty patient cannot
// starve others behind the same NAT; falls back to the source address when
// the request never passed AuthRequired.
func ByUser(c *gin.Context) string {
	if id := GetUserID(c); id != 0 {
		return fmt.Sprintf("user_%d", id)
	}
	return c.ClientIP()
}

// InMemoryRateLimiter is a sliding-window request counter per bucket key.
type InMemoryRateLimiter struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
	limit   int
	window  time.Duration
}

func NewInMemoryRateLimiter(limit int, window time.Duration) *InMemoryRateLimiter {
	l := &InMemoryRateLimiter{
		buckets: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
	}
	go l.prune()
	return l
}

// Allow records one request for key and reports whether it fits the window.
func (l *InMemoryRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	kept := l.trim(l.buckets[key], now)
	if len(kept) >= l.limit {
		l.buckets[key] = kept
		return false
	}
	l.buckets[key] = append(kept, now)
	return true
}

// trim drops entries older than the window. Entries are appended in order,
// so the survivors are always a suffix.
func (l *InMemoryRateLimiter) trim(times []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(times) && !times[i].After(cutoff) {
		i++
	}
	return times[i:]
}

func (l *InMemoryRateLimiter) prune() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		l.mu.Lock()
		now := time.Now()
		for k, times := range l.buckets {
			kept := l.trim(times, now)
			if len(kept) == 0 {
				delete(l.buckets, k)
			} else {
				l.buckets[k] = kept
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit rejects requests over the limiter's window with 429.
func RateLimit(limiter *InMemoryRateLimiter, key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(key(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var (
	errMissingBearer   = errors.New("missing bearer token")
	errInvalidToken    = errors.New("invalid console token")
	errTooManyAttempts = errors.New("too many failed attempts")
)

// ValidTokenHash reports whether hash is a bcrypt hash the guard can use.
func ValidTokenHash(hash string) bool {
	_, err := bcrypt.Cost([]byte(hash))
	return err == nil
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	now     func() time.Time
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, now: time.Now, entries: make(map[string][]time.Time)}
}

// Blocked reports whether key has used up its attempts in the current window.
func (l *attemptLimiter) Blocked(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.prune(key)) >= l.max
}

// Fail records one failed attempt for key.
func (l *attemptLimiter) Fail(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[key] = append(l.prune(key), l.now())
}

func (l *attemptLimiter) prune(key string) []time.Time {
	cutoff := l.now().Add(-l.window)
	history := l.entries[key]
	kept := history[:0]
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(l.entries, key)
		return nil
	}
	l.entries[key] = kept
	return kept
}

// requireConsoleToken checks the bearer token against the configured bcrypt
// hash. An empty hash leaves the API open.
func (a *API) requireConsoleToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.tokenHash == nil {
			c.Next()
			return
		}
		key := c.ClientIP()
		if a.limiter.Blocked(key) {
			abortWithError(c, http.StatusTooManyRequests, errTooManyAttempts)
			return
		}

		authorization := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			abortWithError(c, http.StatusUnauthorized, errMissingBearer)
			return
		}
		token := strings.TrimSpace(authorization[len("Bearer "):])
		if token == "" || bcrypt.CompareHashAndPassword(a.tokenHash, []byte(token)) != nil {
			a.limiter.Fail(key)
			a.log.WithField("client", key).Warn("rejected console token")
			abortWithError(c, http.StatusUnauthorized, errInvalidToken)
			return
		}
		c.Next()
	}
}

package apiclient

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrTokenExpired = errors.New("backend token has expired")

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken serves one bearer token. When the token is a JWT its exp claim
// is checked locally so an expired credential fails before any request goes
// out; the signature is the backend's business and is not verified here.
type StaticToken struct {
	mu      sync.RWMutex
	token   string
	expires time.Time
	now     func() time.Time
}

func NewStaticToken(token string) *StaticToken {
	t := &StaticToken{now: time.Now}
	t.Set(token)
	return t
}

func (t *StaticToken) Set(token string) {
	token = strings.TrimSpace(token)
	expires := expiryOf(token)

	t.mu.Lock()
	t.token = token
	t.expires = expires
	t.mu.Unlock()
}

// Clear drops the token after the backend rejected it.
func (t *StaticToken) Clear() {
	t.Set("")
}

func (t *StaticToken) Token(_ context.Context) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.token == "" {
		return "", nil
	}
	if !t.expires.IsZero() && !t.now().Before(t.expires) {
		return "", ErrTokenExpired
	}
	return t.token, nil
}

func expiryOf(token string) time.Time {
	if strings.Count(token, ".") != 2 {
		return time.Time{}
	}
	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

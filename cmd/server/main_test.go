package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"bakeryconsole/backend/internal/apierror"
	"bakeryconsole/backend/internal/config"
)

func validConfig() config.Config {
	return config.Config{BackendBaseURL: "https://bakery.example/api/v1", PollInterval: 3 * time.Second}
}

func TestValidateConfigAcceptsDefaults(t *testing.T) {
	if err := validateConfig(validConfig()); err != nil {
		t.Fatalf("expected config to pass, got %v", err)
	}
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cases := map[string]func(*config.Config){
		"relative url":  func(c *config.Config) { c.BackendBaseURL = "/api/v1" },
		"ftp url":       func(c *config.Config) { c.BackendBaseURL = "ftp://bakery.example" },
		"plain token":   func(c *config.Config) { c.ConsoleTokenHash = "letmein" },
		"fast interval": func(c *config.Config) { c.PollInterval = 500 * time.Millisecond },
	}
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected config to be rejected", name)
		}
	}
}

func TestValidateConfigAcceptsBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("console-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	cfg := validConfig()
	cfg.ConsoleTokenHash = string(hash)
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("expected bcrypt hash to pass, got %v", err)
	}
}

func TestBackendClientKeepsTokenAfterUnauthorized(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		first := len(seen) == 1
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if first {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Token is being rotated"}`)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := validConfig()
	cfg.BackendBaseURL = srv.URL + "/api/v1"
	cfg.BackendToken = "console-backend-token"
	client, err := newBackendClient(cfg, logger)
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	ctx := context.Background()
	if _, err := client.Do(ctx, http.MethodGet, "/dashboard/owner/", nil, nil); !errors.Is(err, apierror.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := client.Do(ctx, http.MethodGet, "/dashboard/owner/", nil, nil); err != nil {
		t.Fatalf("second call: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	for i, auth := range seen {
		if auth != "Bearer console-backend-token" {
			t.Fatalf("call %d sent Authorization %q", i+1, auth)
		}
	}
}

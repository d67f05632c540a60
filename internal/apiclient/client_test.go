package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"bakeryconsole/backend/internal/apierror"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(t *testing.T, srv *httptest.Server, token TokenSource, onUnauthorized func()) *Client {
	t.Helper()
	client, err := New(Options{
		BaseURL:        srv.URL + "/api/v1/",
		Token:          token,
		HTTPClient:     srv.Client(),
		Logger:         quietLogger(),
		OnUnauthorized: onUnauthorized,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func signed(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.RegisteredClaims{
		Subject:   "owner",
		ExpiresAt: jwtlib.NewNumericDate(expiresAt),
	})
	out, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return out
}

func TestDoSendsHeadersAndDecodes(t *testing.T) {
	var gotPath, gotQuery, gotAuth, gotReqID, gotContentType string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"total_amount":"12.50"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, NewStaticToken("plain-token"), nil)
	ctx := WithRequestID(context.Background(), "req-123")
	out, err := client.Do(ctx, http.MethodPost, "/sales/sales/", url.Values{"page": {"2"}}, map[string]any{"receipt_issued": true})
	if err != nil {
		t.Fatalf("do: %v", err)
	}

	if gotPath != "/api/v1/sales/sales/" || gotQuery != "page=2" {
		t.Fatalf("unexpected target %s?%s", gotPath, gotQuery)
	}
	if gotAuth != "Bearer plain-token" || gotReqID != "req-123" || gotContentType != "application/json" {
		t.Fatalf("unexpected headers: auth=%q id=%q ct=%q", gotAuth, gotReqID, gotContentType)
	}
	if gotBody["receipt_issued"] != true {
		t.Fatalf("unexpected body %v", gotBody)
	}
	obj, ok := out.(map[string]any)
	if !ok || obj["id"] != json.Number("7") {
		t.Fatalf("unexpected decoded body %#v", out)
	}
}

func TestDoGeneratesRequestID(t *testing.T) {
	var gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReqID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil, nil)
	out, err := client.Do(context.Background(), http.MethodDelete, "/sales/sales/4/", nil, nil)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil body for 204, got %#v", out)
	}
	if len(gotReqID) != 36 {
		t.Fatalf("expected generated uuid request id, got %q", gotReqID)
	}
}

func TestDoReturnsAPIErrorWithMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"items_input":["This field is required."]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil, nil)
	_, err := client.Do(context.Background(), http.MethodPost, "/sales/sales/", nil, map[string]any{})

	var apiErr *apierror.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *apierror.Error, got %T %v", err, err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message() != "This field is required." {
		t.Fatalf("unexpected error %+v (%s)", apiErr, apiErr.Message())
	}
	if _, ok := apiErr.Body["items_input"]; !ok {
		t.Fatalf("expected decoded error body, got %v", apiErr.Body)
	}
}

func TestDoUnauthorizedNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Invalid token."}`))
	}))
	defer srv.Close()

	var calls atomic.Int32
	token := NewStaticToken("stale")
	client := newTestClient(t, srv, token, func() {
		calls.Add(1)
		token.Clear()
	})

	_, err := client.Do(context.Background(), http.MethodGet, "/audit/", nil, nil)
	if !errors.Is(err, apierror.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if apierror.Message(err) != "Invalid token." {
		t.Fatalf("unexpected message %q", apierror.Message(err))
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one unauthorized callback, got %d", calls.Load())
	}
	if got, _ := token.Token(context.Background()); got != "" {
		t.Fatalf("expected token cleared, got %q", got)
	}
}

func TestExpiredTokenFailsBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := newTestClient(t, srv, NewStaticToken(signed(t, time.Now().Add(-time.Minute))), nil)
	_, err := client.Do(context.Background(), http.MethodGet, "/dashboard/owner/", nil, nil)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("expected no request, got %d", hits.Load())
	}
}

func TestValidJWTIsSent(t *testing.T) {
	token := signed(t, time.Now().Add(time.Hour))
	got, err := NewStaticToken(token).Token(context.Background())
	if err != nil || got != token {
		t.Fatalf("expected token to pass, got %q %v", got, err)
	}
}

func TestDoTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := newTestClient(t, srv, nil, nil)
	srv.Close()

	_, err := client.Do(context.Background(), http.MethodGet, "/audit/", nil, nil)
	var apiErr *apierror.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 0 {
		t.Fatalf("expected transport error, got %v", err)
	}
	if apierror.Message(err) != apierror.Fallback {
		t.Fatalf("expected fallback message, got %q", apierror.Message(err))
	}
}

func TestDoNonJSONSuccessDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>ok</html>`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv, nil, nil)
	out, err := client.Do(context.Background(), http.MethodGet, "/audit/", nil, nil)
	if err != nil || out != nil {
		t.Fatalf("expected nil body without error, got %#v %v", out, err)
	}
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8000", "ftp://backend/api", "http://"} {
		if _, err := New(Options{BaseURL: raw}); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

// Package apiclient talks to the bakery backend REST API. It owns transport
// concerns only: base URL, bearer token, request ids and turning non-2xx
// responses into *apierror.Error. Bodies come back decoded but unshaped.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bakeryconsole/backend/internal/apierror"
	"bakeryconsole/backend/internal/envelope"
)

const maxBodyBytes = 8 << 20

type Options struct {
	BaseURL    string
	Token      TokenSource
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logrus.FieldLogger

	// OnUnauthorized runs after any 401 response, before the error is
	// returned.
	OnUnauthorized func()
}

type Client struct {
	base           *url.URL
	token          TokenSource
	http           *http.Client
	log            logrus.FieldLogger
	onUnauthorized func()
}

func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend base url must be http or https, got %q", opts.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("backend base url has no host: %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		base:           base,
		token:          opts.Token,
		http:           httpClient,
		log:            logger,
		onUnauthorized: opts.OnUnauthorized,
	}, nil
}

type requestIDKey struct{}

// WithRequestID makes outgoing calls reuse id as their X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Do sends one request and returns the decoded JSON body, or nil for an empty
// one. A 2xx body that is not valid JSON is logged and returned as nil so the
// caller degrades to its empty shape.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	target := c.resolve(path, query)
	reqID := requestID(ctx)
	log := c.log.WithFields(logrus.Fields{"method": method, "path": path, "request_id": reqID})

	var token string
	if c.token != nil {
		var err error
		token, err = c.token.Token(ctx)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) && c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			return nil, &apierror.Error{Method: method, Path: path, Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("backend request failed")
		return nil, &apierror.Error{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.WithError(err).Warn("read backend response")
		return nil, &apierror.Error{Status: resp.StatusCode, Method: method, Path: path, Err: err}
	}
	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "duration_ms": time.Since(started).Milliseconds()})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apierror.Error{Status: resp.StatusCode, Method: method, Path: path, Raw: raw}
		if decoded, err := envelope.Decode(raw); err == nil {
			apiErr.Body, _ = decoded.(map[string]any)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			apiErr.Err = apierror.ErrUnauthorized
			if c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		log.WithField("message", apiErr.Message()).Warn("backend returned an error")
		return nil, apiErr
	}

	log.Debug("backend request")
	decoded, err := envelope.Decode(raw)
	if err != nil {
		log.WithError(err).Warn("backend returned a body that is not json")
		return nil, nil
	}
	return decoded, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Package client implements the HTTP API client for the mystery-box backend.
//
// Every operation is a single attempt: no retries, no response caching. A
// non-2xx response and a transport failure surface through the same channel,
// an *APIError; callers can only tell them apart by Status (0 for transport).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mysterybox-game/boxctl/internal/client/metrics"
)

// APIError is the one error type produced by the client. Message is the
// server-provided error when present, else a per-resource fallback.
type APIError struct {
	// Status is the HTTP status code, or 0 when no response was received.
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// errorEnvelope matches the backend's failure body: {"error": "..."}.
type errorEnvelope struct {
	Error string `json:"error"`
}

// Client issues JSON requests against the backend. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New returns a Client for the given base URL (scheme://host, no trailing
// slash required). A non-positive timeout disables the client-side deadline.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// do builds, sends and decodes one API call. token may be empty for the
// unauthenticated endpoints. out may be nil when the caller only needs the
// ack. fallback is the resource's generic failure message.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any, fallback string) error {
	start := time.Now()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: fallback}
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return &APIError{Message: fallback}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Str("request_id", reqID).Msg("request failed")
		metrics.APIRequestsTotal.WithLabelValues(path, "transport").Inc()
		return &APIError{Message: fallback}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(path, "transport").Inc()
		return &APIError{Message: fallback}
	}

	metrics.APIRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.APIRequestsTotal.WithLabelValues(path, "error").Inc()
		var env errorEnvelope
		msg := fallback
		if err := json.Unmarshal(raw, &env); err == nil && env.Error != "" {
			msg = env.Error
		}
		c.log.Debug().Int("status", resp.StatusCode).Str("path", path).Str("request_id", reqID).Str("error", msg).Msg("request rejected")
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			// Malformed success body: treat like a transport failure.
			c.log.Warn().Err(err).Str("path", path).Str("request_id", reqID).Msg("failed to decode response")
			metrics.APIRequestsTotal.WithLabelValues(path, "transport").Inc()
			return &APIError{Message: fallback}
		}
	}

	metrics.APIRequestsTotal.WithLabelValues(path, "ok").Inc()
	c.log.Debug().Str("method", method).Str("path", path).Str("request_id", reqID).Dur("took", time.Since(start)).Msg("request ok")
	return nil
}

// get is sugar for body-less calls.
func (c *Client) get(ctx context.Context, path, token string, out any, fallback string) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out, fallback)
}

// IsStatus reports whether err is an *APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == status
}

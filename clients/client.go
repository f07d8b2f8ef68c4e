// Package clients wraps every HTTP call to the CanineRacks API: uniform
// request construction (base URL, JSON or multipart encoding, bearer
// injection) and response normalization into the apperrors taxonomy.
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/canineracks/inventory-console/apperrors"
	"github.com/canineracks/inventory-console/session"
)

// SessionSource is the slice of the session store the client needs: the
// token for bearer injection, and atomic clear on unauthorized responses.
type SessionSource interface {
	Load() (session.Session, session.State)
	Save(sess session.Session) error
	Clear() error
}

// Client calls the CanineRacks API over one configured base URL.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions SessionSource

	// onUnauthorized runs after the session has been cleared in response
	// to a 401/403 on an authenticated call. The console uses it to route
	// back to the login entry point. Centralized here so no call site can
	// forget the check.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithUnauthorizedHandler registers the redirect hook fired on 401/403.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client with a bounded per-request timeout.
func New(baseURL string, timeout time.Duration, sessions SessionSource, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one request and decodes the JSON response into out (out may
// be nil for calls whose body is irrelevant). Authenticated calls carry
// "Authorization: Bearer <accessToken>" when a session is present.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, authed bool, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return apperrors.Network("Failed to build request", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		if sess, st := c.sessions.Load(); st == session.StatePresent {
			req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.transportError(method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.statusError(resp, authed)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Server("Failed to decode server response", err)
	}
	return nil
}

// transportError maps request failures that produced no response.
func (c *Client) transportError(method, path string, err error) error {
	zap.L().Warn("Request failed without response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Error(err),
	)

	var uerr *url.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &uerr) && uerr.Timeout()) {
		return apperrors.Timeout("The request timed out. Please try again.", err)
	}
	return apperrors.Network("Could not reach the server. Please check your connection.", err)
}

// statusError maps a non-2xx response into the error taxonomy. For
// authenticated calls, any unauthorized status clears the session and
// fires the redirect hook before returning.
func (c *Client) statusError(resp *http.Response, authed bool) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	message, fields := parseErrorBody(body)

	switch {
	case authed && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden):
		if err := c.sessions.Clear(); err != nil {
			zap.L().Warn("Failed to clear session after unauthorized response", zap.Error(err))
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if message == "" {
			message = "Your session has expired. Please log in again."
		}
		return apperrors.Authorization(message, nil)

	case resp.StatusCode == http.StatusNotFound:
		if message == "" {
			message = "Not found."
		}
		return apperrors.NotFound(message)

	case resp.StatusCode >= 500:
		if message == "" {
			message = "The server encountered an error. Please try again."
		}
		return apperrors.Server(message, nil)

	default: // remaining 4xx: validation-style failures, possibly with field errors
		if message == "" {
			message = "Request failed. Please check your inputs."
		}
		return apperrors.Validation(message, fields)
	}
}

// parseErrorBody extracts a display message and per-field errors from the
// API's 4xx shapes: {detail}, {error}, {message}, and DRF-style
// {field: ["msg", ...]} maps.
func parseErrorBody(body []byte) (string, map[string][]string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", nil
	}

	var message string
	for _, key := range []string{"detail", "error", "message"} {
		if v, ok := raw[key]; ok {
			var s string
			if json.Unmarshal(v, &s) == nil && s != "" {
				message = s
				break
			}
		}
	}

	fields := make(map[string][]string)
	for key, v := range raw {
		if key == "detail" || key == "error" || key == "message" {
			continue
		}
		var msgs []string
		if json.Unmarshal(v, &msgs) == nil && len(msgs) > 0 {
			fields[key] = msgs
		}
	}
	if len(fields) == 0 {
		fields = nil
	}
	if message == "" && fields != nil {
		message = "Request failed validation."
	}
	return message, fields
}

// jsonBody encodes v for a JSON request body.
func jsonBody(v interface{}) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return strings.NewReader(string(data)), nil
}

// Package gateway issues the backend calls of the FarmChainX client and
// folds every outcome into a Result.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Adithya91-code/Farmchaingpt/internal/obs"
)

const (
	// DefaultBaseURL is where the backend listens in a local setup.
	DefaultBaseURL = "http://localhost:8080/api"

	// NetworkError is reported whenever no response was obtained.
	NetworkError = "Network error occurred"

	requestIDHeader  = "X-Request-ID"
	maxResponseBytes = 8 << 20
)

// Credentials supplies and stores the bearer token. *session.Store satisfies it.
type Credentials interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Result carries either Data or a human-readable Error, never both.
// A successful call may leave Data at its zero value (no-content responses).
type Result[T any] struct {
	Data  T      `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// OK reports whether the call succeeded.
func (r Result[T]) OK() bool { return r.Error == "" }

// Map applies f to a successful result and passes failures through.
func Map[A, B any](r Result[A], f func(A) B) Result[B] {
	if !r.OK() {
		return Result[B]{Error: r.Error}
	}
	return Result[B]{Data: f(r.Data)}
}

// Client talks to one backend. It holds no per-call state and may be
// shared between goroutines. Responses are applied in completion order;
// callers that need ordering between writes must serialize them.
type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every call. Zero, the default, waits indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit throttles outgoing calls to perSecond with the given burst.
// Calls wait for a token; a call whose context ends while waiting fails as
// a network error.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New builds a client for baseURL. creds may be nil for anonymous use.
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		creds:   creds,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string { return c.baseURL }

type call struct {
	method string
	path   string
	body   any
	auth   bool
}

// send performs one call. Transport failures become NetworkError, non-2xx
// responses carry the body text (or a status message when the body is
// empty or unreadable), and undecodable 2xx bodies succeed with zero Data.
func send[T any](ctx context.Context, c *Client, cl call) Result[T] {
	route := obs.CanonicalPath(cl.path)
	done := obs.ClientCall(cl.method, route)
	requestID := uuid.NewString()
	start := time.Now()

	logCall := func(level, outcome string, status int, extra map[string]any) {
		fields := map[string]any{
			"request_id":  requestID,
			"method":      cl.method,
			"route":       route,
			"status":      status,
			"outcome":     outcome,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		for k, v := range extra {
			fields[k] = v
		}
		obs.LogEvent(level, "request_complete", fields)
		done(outcome)
	}
	networkFailure := func(err error) Result[T] {
		logCall("error", "network", 0, map[string]any{"error": err.Error()})
		return Result[T]{Error: NetworkError}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return networkFailure(err)
		}
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			logCall("error", "encode", 0, map[string]any{"error": err.Error()})
			return Result[T]{Error: fmt.Sprintf("encode request: %v", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return networkFailure(err)
	}
	req.Header.Set(requestIDHeader, requestID)
	if cl.body != nil || cl.auth {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.auth {
		req.Header.Set("Accept", "application/json")
		if token := c.token(ctx, requestID); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return networkFailure(err)
	}
	defer resp.Body.Close()
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(raw)
		if readErr != nil || len(raw) == 0 {
			msg = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
		}
		logCall("warn", "http_error", resp.StatusCode, map[string]any{"error": msg})
		return Result[T]{Error: msg}
	}

	var data T
	if readErr == nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			logCall("info", "ok_undecoded", resp.StatusCode, map[string]any{"error": err.Error()})
			return Result[T]{}
		}
	}
	logCall("info", "ok", resp.StatusCode, nil)
	return Result[T]{Data: data}
}

func (c *Client) token(ctx context.Context, requestID string) string {
	if c.creds == nil {
		return ""
	}
	token, err := c.creds.Token(ctx)
	if err != nil {
		obs.LogEvent("warn", "credential_unavailable", map[string]any{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return ""
	}
	return token
}

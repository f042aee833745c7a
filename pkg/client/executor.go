// Package client performs the network call for a bound request and
// normalizes the outcome. It owns no state beyond its HTTP client: calls
// from independent sessions may run concurrently.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lvsoft/service-kit/internal/logging"
	"github.com/lvsoft/service-kit/pkg/command"
)

// DefaultTimeout bounds every request. A call never hangs the loop that
// issued it; on expiry the result is a typed network failure.
const DefaultTimeout = 30 * time.Second

// Executor turns bound requests into HTTP calls against a base address.
type Executor struct {
	client  *http.Client
	timeout time.Duration
	token   string
	logger  *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithToken sets a bearer credential passed through on every request.
func WithToken(token string) Option {
	return func(e *Executor) { e.token = token }
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Executor) {
		if c != nil {
			e.client = c
		}
	}
}

// WithLogger injects the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		client:  &http.Client{},
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Do builds and performs the call described by the bound request.
//
// Any HTTP response, 2xx or not, produces a Result: a remote 4xx/5xx is the
// command's outcome, not a fault of the dispatch pipeline. Transport
// failures, timeouts and unreadable bodies come back as typed errors.
func (e *Executor) Do(ctx context.Context, baseURL string, bound *command.BoundRequest) (*Result, error) {
	target, err := BuildURL(baseURL, bound)
	if err != nil {
		return nil, &NetworkError{URL: baseURL, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var body io.Reader
	if len(bound.Body) > 0 {
		body = bytes.NewReader(bound.Body)
	}
	req, err := http.NewRequestWithContext(ctx, bound.Operation.Method, target, body)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	for name, values := range bound.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if len(bound.Body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	e.logger.Debug("dispatching request", "method", bound.Operation.Method, "url", target)

	resp, err := e.client.Do(req)
	if err != nil {
		timeout := errors.Is(err, context.DeadlineExceeded) || isTimeout(err)
		return nil, &NetworkError{URL: target, Err: err, Timeout: timeout}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	e.logger.Debug("response received", "status", resp.StatusCode, "bytes", len(payload))

	return &Result{Status: resp.StatusCode, Body: payload}, nil
}

// BuildURL substitutes path placeholders and appends the encoded query.
func BuildURL(baseURL string, bound *command.BoundRequest) (string, error) {
	path := bound.Operation.Path
	for name, value := range bound.Path {
		path = strings.ReplaceAll(path, "{"+name+"}", url.PathEscape(value))
	}
	target := strings.TrimRight(baseURL, "/") + path
	if _, err := url.Parse(target); err != nil {
		return "", err
	}
	if len(bound.Query) > 0 {
		target += "?" + bound.Query.Encode()
	}
	return target, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// Result is the normalized outcome of one performed call.
type Result struct {
	Status int
	Body   []byte
}

// OK reports a 2xx-equivalent outcome.
func (r *Result) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Err returns the typed remote failure for non-2xx results, nil otherwise.
func (r *Result) Err() error {
	if r.OK() {
		return nil
	}
	return &RemoteError{Status: r.Status, Body: r.Body}
}

// Render pretty-prints the payload when it is structured JSON and returns it
// verbatim otherwise.
func (r *Result) Render() string {
	trimmed := bytes.TrimSpace(r.Body)
	if len(trimmed) == 0 {
		return ""
	}
	if json.Valid(trimmed) && (trimmed[0] == '{' || trimmed[0] == '[') {
		var buf bytes.Buffer
		if err := json.Indent(&buf, trimmed, "", "  "); err == nil {
			return buf.String()
		}
	}
	return string(r.Body)
}

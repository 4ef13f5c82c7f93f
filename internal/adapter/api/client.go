// Package api is the typed HTTP client for the lending API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"staff-portal/internal/notify"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 16 << 20

	HeaderRequestID = "Ax-Request-Id"
	HeaderRequestAt = "Ax-Request-At"

	unexpectedMessage = "An unexpected error occurred. Please try again."
)

type Config struct {
	// BaseURL is the API root, for example http://localhost:8080/api.
	BaseURL string
	Timeout time.Duration
	// Token returns the bearer token of the current session, "" when logged out.
	Token func() string

	// OnUnauthorized runs on every 401 before the error is returned.
	OnUnauthorized func()
	// OnForbidden runs on every 403 before the error is returned.
	OnForbidden func()
	// Notifier is shown every other failure except a 404 on a write.
	Notifier notify.Notifier

	HTTPClient *http.Client
	Log        zerolog.Logger
	Metrics    *Metrics
	Now        func() time.Time
}

type Client struct {
	cfg     Config
	http    *http.Client
	baseURL string
	log     zerolog.Logger
}

// envelope is the success body of every JSON endpoint.
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// failure is the body of a non-2xx answer.
type failure struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: invalid BaseURL %q", cfg.BaseURL)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	cfg.BaseURL = baseURL
	return &Client{
		cfg:     cfg,
		http:    hc,
		baseURL: baseURL,
		log:     cfg.Log.With().Str("component", "api").Logger(),
	}, nil
}

type requestIDKey struct{}

// WithRequestID pins the Ax-Request-Id sent by writes made with ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// WithNewRequestID gives ctx a fresh request id unless it already has one.
// Use it once per logical write so its retries are recognised as repeats.
func WithNewRequestID(ctx context.Context) context.Context {
	if RequestID(ctx) != "" {
		return ctx
	}
	return WithRequestID(ctx, uuid.NewString())
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// do sends one request and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		id := RequestID(ctx)
		if id == "" {
			id = uuid.NewString()
		}
		req.Header.Set(HeaderRequestID, id)
		req.Header.Set(HeaderRequestAt, c.cfg.Now().UTC().Format(time.RFC3339))
	}

	raw, resp, err := c.send(req, path)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &DecodeError{Err: fmt.Errorf("%s %s: %w", method, path, err)}
	}
	if !env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &DecodeError{Err: fmt.Errorf("%s %s: %w", method, path, err)}
	}
	return nil
}

// send performs req and returns the 2xx body along with the response, whose
// body is already closed. Failures go through the status hooks before they
// are returned.
func (c *Client) send(req *http.Request, path string) ([]byte, *http.Response, error) {
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.cfg.Metrics.observe(req.Method, path, 0, start)
		c.log.Warn().Err(err).Str("method", req.Method).Str("path", path).Msg("request failed")
		if req.Context().Err() == nil {
			c.show(unexpectedMessage)
		}
		return nil, nil, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()
	c.cfg.Metrics.observe(req.Method, path, resp.StatusCode, start)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp, fmt.Errorf("reading %s %s: %w", req.Method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, resp, nil
	}

	apiErr := parseFailure(resp.StatusCode, raw)
	c.log.Debug().Int("status", resp.StatusCode).Str("method", req.Method).Str("path", path).Msg(apiErr.Message)
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.cfg.OnUnauthorized != nil {
			c.cfg.OnUnauthorized()
		}
	case resp.StatusCode == http.StatusForbidden:
		if c.cfg.OnForbidden != nil {
			c.cfg.OnForbidden()
		}
	case resp.StatusCode == http.StatusNotFound && req.Method != http.MethodGet:
		// the facade drops a write target that vanished
	default:
		msg := apiErr.Message
		if msg == "" {
			msg = unexpectedMessage
		}
		c.show(msg)
	}
	return nil, resp, apiErr
}

func parseFailure(status int, raw []byte) *Error {
	e := &Error{Status: status}
	var f failure
	if err := json.Unmarshal(raw, &f); err == nil {
		e.Message, e.Details = f.Message, f.Errors
		return e
	}
	// plain text bodies are shown as they are
	if text := strings.TrimSpace(string(raw)); text != "" && len(text) <= 500 {
		e.Message = text
	}
	return e
}

func (c *Client) token() string {
	if c.cfg.Token == nil {
		return ""
	}
	return c.cfg.Token()
}

func (c *Client) show(msg string) {
	if c.cfg.Notifier != nil {
		c.cfg.Notifier.Show(msg)
	}
}

func idPath(format string, ids ...int64) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf(format, args...)
}

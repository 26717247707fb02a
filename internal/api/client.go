package api

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
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Session is the caller's authentication state. Expire is invoked when the
// backend rejects the session's token.
type Session interface {
	Token() string
	Expire()
}

// Doer is what resource services need from the client.
type Doer interface {
	Do(ctx context.Context, sess Session, req Request, out any) error
	BaseURL() string
}

// Client is the single chokepoint for every call to the shop REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
	observe    func(method string, status int, elapsed time.Duration)
}

type Option func(*Client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Client) { c.log = log }
}

// WithObserver reports method, status (0 on transport failure) and latency of every call.
func WithObserver(fn func(method string, status int, elapsed time.Duration)) Option {
	return func(c *Client) { c.observe = fn }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logrus.StandardLogger(),
		observe:    func(string, int, time.Duration) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL is the backend root every request path is appended to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req and decodes a 2xx JSON answer into out (which may be nil).
//
// A request flagged RequireAuth fails with ErrMissingToken before dispatch when
// sess holds no token. A 401 on an authenticated call expires sess; the returned
// error then matches ErrSessionExpired. A 401 on a public call leaves sess alone.
func (c *Client) Do(ctx context.Context, sess Session, req Request, out any) error {
	token := ""
	if sess != nil {
		token = sess.Token()
	}
	if req.RequireAuth && token == "" {
		return ErrMissingToken
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	url := c.baseURL + req.Path
	if qs := req.Params.Encode(); qs != "" {
		url += "?" + qs
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, req.Path, err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.RequireAuth {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       req.Path,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(method, 0, time.Since(start))
		log.WithError(err).Warn("backend call failed")
		return fmt.Errorf("call %s %s: %w", method, req.Path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	c.observe(method, resp.StatusCode, time.Since(start))
	if err != nil {
		return fmt.Errorf("read response %s %s: %w", method, req.Path, err)
	}
	log = log.WithField("status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newError(resp.StatusCode, payload)
		if resp.StatusCode == http.StatusUnauthorized && req.RequireAuth && sess != nil {
			sess.Expire()
			apiErr.expired = true
		}
		log.WithField("message", apiErr.Message).Warn("backend rejected call")
		return apiErr
	}
	log.Debug("backend call")

	return decode(payload, out)
}

func decode(payload []byte, out any) error {
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = text(trimmed)
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// text reads a confirmation answer that may be plain text, a JSON string or
// an object carrying a message.
func text(payload []byte) string {
	if !gjson.ValidBytes(payload) {
		return string(payload)
	}
	r := gjson.ParseBytes(payload)
	if r.Type == gjson.String {
		return r.String()
	}
	if m := r.Get("message"); m.Exists() {
		return m.String()
	}
	return string(payload)
}

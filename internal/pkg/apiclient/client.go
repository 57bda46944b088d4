// Package apiclient wraps every call to the booking backend: URL
// resolution, auth headers, trace propagation, the global 401 interceptor,
// and the shared error-message formatter.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/pkg/session"
)

const tracerName = "github.com/skysync/skysync-tui/internal/pkg/apiclient"

// Client issues requests against the booking API. The session store is read
// at request time, so a login taking effect mid-session is picked up by the
// very next call.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	store            session.Store
	onSessionExpired func()
}

func New(baseURL string, timeout time.Duration, store session.Store) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
	}
}

// OnSessionExpired registers the hook run after a 401 clears the session.
// The TUI uses it to force navigation to the login view.
func (c *Client) OnSessionExpired(hook func()) {
	c.onSessionExpired = hook
}

// Response is a fully-read API reply. The body is read exactly once here;
// callers parse the bytes opportunistically.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, nil)
}

func (c *Client) Post(ctx context.Context, path string, payload any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, payload, nil)
}

// Do executes one API call. payload (when non-nil) is marshaled as JSON.
// Extra headers override the computed ones. A 401 clears the stored auth
// state, fires the session-expired hook and returns ErrSessionExpired
// regardless of what the caller does with the error.
func (c *Client) Do(ctx context.Context, method, path string, payload any, header http.Header) (*Response, error) {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, method+" "+requestName(path),
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.resolveURL(path), body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("build request: %w", err)
	}

	c.setHeaders(req, payload != nil, header, span)

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("read response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized {
		c.expireSession(ctx)

		return nil, ErrSessionExpired
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// resolveURL turns a relative API path into an absolute URL. Already
// absolute URLs pass through untouched.
func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) setHeaders(req *http.Request, hasBody bool, extra http.Header, span trace.Span) {
	if token, ok := c.store.Get(session.KeyToken); ok {
		var value string
		if err := json.Unmarshal(token, &value); err == nil && value != "" {
			req.Header.Set("Authorization", "Bearer "+value)
		}
	}

	if raw, ok := c.store.Get(session.KeyUser); ok {
		var user dto.AuthUser
		if err := json.Unmarshal(raw, &user); err == nil && user.ID != "" {
			req.Header.Set("X-User-Id", user.ID)
			req.Header.Set("X-User-Email", user.Email)
			span.SetAttributes(
				attribute.String("enduser.id", user.ID),
				attribute.String("user.email", user.Email),
			)
		}
	}

	for key, values := range extra {
		req.Header.Del(key)
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	if hasBody && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
}

func (c *Client) expireSession(ctx context.Context) {
	if err := c.store.Delete(session.KeyToken, session.KeyUser); err != nil {
		slog.WarnContext(ctx, "failed to clear session after 401", slog.String("error", err.Error()))
	}

	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// requestName strips the query string for span names.
func requestName(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}

	return path
}

// Package backend is the HTTP client for the hospital REST backend.
//
// A single Client is built at startup. Handlers derive request-scoped copies
// with WithTokens so the bearer credential is read from the caller's session
// store on every request rather than captured at construction.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/cedarcrest-hospital/portal/internal/core/ports"
)

const userAgent = "cedarcrest-portal"

// Client talks JSON to the REST backend. The zero value is not usable; build
// one with New.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  ports.TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New returns a Client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("backend: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend: base url %q must be absolute", baseURL)
	}
	c := &Client{baseURL: u, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithTokens returns a copy of c that attaches the token yielded by ts to
// every request. The transport is shared.
func (c *Client) WithTokens(ts ports.TokenSource) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

func (c *Client) Auth() *AuthService                 { return &AuthService{c: c} }
func (c *Client) Appointments() *AppointmentsService { return &AppointmentsService{c: c} }
func (c *Client) Doctors() *DoctorsService           { return &DoctorsService{c: c} }
func (c *Client) Testimonials() *TestimonialsService { return &TestimonialsService{c: c} }
func (c *Client) Events() *EventsService             { return &EventsService{c: c} }
func (c *Client) Newsletter() *NewsletterService     { return &NewsletterService{c: c} }
func (c *Client) Push() *PushService                 { return &PushService{c: c} }

// envelope is the response wrapper used by the data endpoints.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// request is a single call description.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// token overrides the bound token source when non-empty.
	token string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	endpoint := c.baseURL.JoinPath(r.path)
	if len(r.query) > 0 {
		endpoint.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("backend: encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("backend: build %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token := r.token
	if token == "" && c.tokens != nil {
		if token, err = c.tokens.Token(ctx); err != nil {
			return fmt.Errorf("backend: read token: %w", err)
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Message: fallbackMessage, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Status: resp.StatusCode, Message: fallbackMessage, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return errorFromResponse(resp.StatusCode, payload)
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("backend: decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

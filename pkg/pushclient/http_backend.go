package pushclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPBackend implements Backend against the portal's push endpoints:
//
//	GET    {base}/api/push/vapid-public-key
//	POST   {base}/api/push/subscription
//	DELETE {base}/api/push/subscription
//
// The portal session travels in the client's cookie jar.
type HTTPBackend struct {
	base   string
	client *http.Client
}

// NewHTTPBackend returns a backend rooted at baseURL. A nil client means
// http.DefaultClient.
func NewHTTPBackend(baseURL string, client *http.Client) *HTTPBackend {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPBackend{base: strings.TrimRight(baseURL, "/"), client: client}
}

type keyResponse struct {
	Success   bool   `json:"success"`
	PublicKey string `json:"publicKey"`
	Message   string `json:"message"`
	Error     string `json:"error"`
}

func (b *HTTPBackend) VAPIDPublicKey(ctx context.Context) (string, error) {
	var out keyResponse
	if err := b.call(ctx, http.MethodGet, "/api/push/vapid-public-key", nil, &out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", fmt.Errorf("vapid key unavailable: %s", firstNonEmpty(out.Message, out.Error, "success=false"))
	}
	if out.PublicKey == "" {
		return "", errors.New("vapid key missing from response")
	}
	return out.PublicKey, nil
}

func (b *HTTPBackend) SaveSubscription(ctx context.Context, sub *Subscription) error {
	return b.call(ctx, http.MethodPost, "/api/push/subscription", sub, nil)
}

func (b *HTTPBackend) DeleteSubscription(ctx context.Context, endpoint string) error {
	return b.call(ctx, http.MethodDelete, "/api/push/subscription", map[string]string{"endpoint": endpoint}, nil)
}

func (b *HTTPBackend) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var e keyResponse
		_ = json.Unmarshal(payload, &e)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, firstNonEmpty(e.Error, e.Message, http.StatusText(resp.StatusCode)))
	}
	if out != nil && len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

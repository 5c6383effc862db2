package infra

import (
	"context"
	"io"
	"net/http"
	"time"
)

const defaultUserAgent = "etfcompo/1.0 (+https://github.com/lwestrich/etfcompo)"

// Client wraps an explicitly constructed http.Client. Providers hold their
// own Client rather than sharing ambient package-level session state.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a Client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}
}

// SetUserAgent overrides the default User-Agent header.
func (c *Client) SetUserAgent(ua string) { c.userAgent = ua }

// DoGet performs a GET request and returns the response body and status
// code. The caller must close the body on success.
func (c *Client) DoGet(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body, resp.StatusCode, nil
}

// GetBytes performs a GET request and returns the full body. Statuses >= 400
// are returned to the caller alongside the body so it can surface the
// provider's error payload.
func (c *Client) GetBytes(ctx context.Context, url string, headers map[string]string) ([]byte, int, error) {
	body, status, err := c.DoGet(ctx, url, headers)
	if err != nil {
		return nil, status, err
	}
	defer body.Close()
	b, err := io.ReadAll(body)
	return b, status, err
}

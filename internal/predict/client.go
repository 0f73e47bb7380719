package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds the prediction service connection parameters.
type Config struct {
	URL string
	// Timeout bounds a whole exchange. Zero waits indefinitely.
	Timeout time.Duration
}

// Client posts feature payloads to the prediction service.
type Client struct {
	httpClient *http.Client
	url        string
}

// ErrNoEndpoint is returned when no prediction URL is configured.
var ErrNoEndpoint = errors.New("predict client missing endpoint url")

// NewClient constructs a Client for the configured endpoint.
func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.URL)
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}
	timeout := cfg.Timeout
	if timeout < 0 {
		timeout = 0
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        endpoint,
	}, nil
}

// URL reports the endpoint the client posts to.
func (c *Client) URL() string {
	return c.url
}

// Predict performs one request/response exchange. It never retries; every
// failure comes back inside the Outcome.
func (c *Client) Predict(ctx context.Context, req Request) Outcome {
	body, err := json.Marshal(req)
	if err != nil {
		return unreachable(0, fmt.Errorf("marshal request: %w", err))
	}

	status, raw, _, err := c.post(ctx, body, "application/json")
	if err != nil {
		return unreachable(0, err)
	}

	if status >= 200 && status < 300 {
		resp, err := DecodeResponse(raw)
		if err != nil {
			return unreachable(status, err)
		}
		return succeeded(resp, status)
	}

	svcErr, err := decodeServiceError(status, raw)
	if err != nil {
		return unreachable(status, err)
	}
	return failed(svcErr)
}

// Forward relays a raw JSON body to the prediction service and hands back
// the upstream status, body and content type unchanged.
func (c *Client) Forward(ctx context.Context, body []byte, contentType string) (int, []byte, string, error) {
	if strings.TrimSpace(contentType) == "" {
		contentType = "application/json"
	}
	return c.post(ctx, body, contentType)
}

func (c *Client) post(ctx context.Context, body []byte, contentType string) (int, []byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, "", fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, resp.Header.Get("Content-Type"), nil
}

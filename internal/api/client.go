package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultClientTimeout = 10 * time.Second

// Client talks to a running daemon over its HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	// streamClient carries no timeout; PDF downloads run until the
	// request context is done.
	streamClient *http.Client
}

// ClientOption customizes the API client.
type ClientOption func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithHTTPClient overrides the HTTP clients, primarily for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
			c.streamClient = httpClient
		}
	}
}

// NewClient builds a client for the daemon listening at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("api client requires a base URL")
	}
	client := &Client{
		baseURL:      trimmed,
		httpClient:   &http.Client{Timeout: defaultClientTimeout},
		streamClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Status fetches the daemon status snapshot.
func (c *Client) Status(ctx context.Context) (DaemonStatus, error) {
	var status DaemonStatus
	if err := c.getJSON(ctx, "/api/status", nil, &status); err != nil {
		return DaemonStatus{}, err
	}
	return status, nil
}

// History lists recorded conversions, newest first. limit <= 0 returns
// everything; statuses filters by terminal status when present.
func (c *Client) History(ctx context.Context, limit int, statuses ...string) ([]ConversionItem, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	for _, status := range statuses {
		if trimmed := strings.TrimSpace(status); trimmed != "" {
			query.Add("status", trimmed)
		}
	}
	var resp HistoryResponse
	if err := c.getJSON(ctx, "/api/history", query, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Generate submits HTML for conversion and streams the resulting PDF into
// dst. It returns the number of PDF bytes written.
func (c *Client) Generate(ctx context.Context, html []byte, dst io.Writer) (int64, error) {
	payload, err := json.Marshal(GenerateRequest{HTML: string(html)})
	if err != nil {
		return 0, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate-pdf", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call daemon: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, c.responseError(resp)
	}
	written, err := io.Copy(dst, resp.Body)
	if err != nil {
		return written, fmt.Errorf("read pdf stream: %w", err)
	}
	return written, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call daemon: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return c.responseError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	message := strings.TrimSpace(string(body))
	var envelope ErrorResponse
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
		message = envelope.Error
	}
	if message == "" {
		message = resp.Status
	}
	return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, message)
}

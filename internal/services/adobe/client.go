package adobe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"inkjet/internal/logging"
)

const (
	defaultBaseURL  = "https://pdf-services.adobe.io"
	defaultTokenURL = "https://ims-na1.adobelogin.com/ims/token/v3"
	defaultScope    = "openid,AdobeID,DCAPI"

	defaultHTTPTimeout     = 60 * time.Second
	defaultPollInterval    = 2 * time.Second
	defaultPollMaxAttempts = 20
)

// Config describes the vendor account and tuning for a Client.
type Config struct {
	ClientID     string
	ClientSecret string
	Scope        string
	BaseURL      string
	TokenURL     string

	// Timeout applies to every call except the streaming download, which is
	// bounded by the caller's context instead.
	Timeout time.Duration

	PollInterval    time.Duration
	PollMaxAttempts int
}

// Client talks to the Adobe PDF Services API.
type Client struct {
	clientID     string
	clientSecret string
	scope        string
	baseURL      string
	tokenURL     string

	httpClient   *http.Client
	streamClient *http.Client

	pollInterval    time.Duration
	pollMaxAttempts int

	logger *slog.Logger
	sleep  func(context.Context, time.Duration) error
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for all non-streaming calls.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for diagnostic output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSleeper replaces the inter-poll sleep. Tests use this to avoid
// real delays while still observing each requested interval.
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// New constructs an Adobe PDF Services client.
func New(cfg Config, opts ...Option) (*Client, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	clientSecret := strings.TrimSpace(cfg.ClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("adobe: client id and secret required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	attempts := cfg.PollMaxAttempts
	if attempts <= 0 {
		attempts = defaultPollMaxAttempts
	}

	client := &Client{
		clientID:        clientID,
		clientSecret:    clientSecret,
		scope:           strings.TrimSpace(cfg.Scope),
		baseURL:         strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		tokenURL:        strings.TrimSpace(cfg.TokenURL),
		httpClient:      &http.Client{Timeout: timeout},
		streamClient:    &http.Client{},
		pollInterval:    interval,
		pollMaxAttempts: attempts,
		logger:          logging.NewNop(),
		sleep:           sleepWithContext,
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	if client.tokenURL == "" {
		client.tokenURL = defaultTokenURL
	}
	if client.scope == "" {
		client.scope = defaultScope
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// PollBudget reports the configured interval and attempt ceiling.
func (c *Client) PollBudget() (time.Duration, int) {
	return c.pollInterval, c.pollMaxAttempts
}

func (c *Client) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logging.NewNop()
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) vendorHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-api-key", c.clientID)
}

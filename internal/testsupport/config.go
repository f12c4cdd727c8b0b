package testsupport

import (
	"path/filepath"
	"testing"

	"inkjet/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Adobe.ClientID = "test-client-id"
	cfgVal.Adobe.ClientSecret = "test-client-secret"
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.History.Path = filepath.Join(base, "data", "history.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCredentials overrides the vendor credential pair on the test config.
func WithCredentials(clientID, clientSecret string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Adobe.ClientID = clientID
		b.cfg.Adobe.ClientSecret = clientSecret
	}
}

// WithVendorURLs points the vendor endpoints at a test server.
func WithVendorURLs(baseURL, tokenURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Adobe.BaseURL = baseURL
		b.cfg.Adobe.TokenURL = tokenURL
	}
}

// WithAPIToken requires bearer authentication on the API surface.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}

// WithMaxRequestBytes overrides the request body cap.
func WithMaxRequestBytes(limit int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Convert.MaxRequestBytes = limit
	}
}

// WithHistoryDisabled turns conversion recording off.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

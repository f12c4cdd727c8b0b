package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkjet/internal/config"
)

func TestLoadDefaultsUseEnvCredentialsAndExpandPaths(t *testing.T) {
	t.Setenv("INKJET_CLIENT_ID", "env-id")
	t.Setenv("INKJET_CLIENT_SECRET", "env-secret")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "inkjet")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.APIBind != "127.0.0.1:7846" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Adobe.ClientID != "env-id" || cfg.Adobe.ClientSecret != "env-secret" {
		t.Fatalf("expected credentials from env, got %q/%q", cfg.Adobe.ClientID, cfg.Adobe.ClientSecret)
	}
	if cfg.Adobe.BaseURL != "https://pdf-services.adobe.io" {
		t.Fatalf("unexpected adobe base url: %q", cfg.Adobe.BaseURL)
	}
	if cfg.Convert.PollIntervalSeconds != 2 || cfg.Convert.PollMaxAttempts != 20 {
		t.Fatalf("unexpected poll defaults: %d/%d", cfg.Convert.PollIntervalSeconds, cfg.Convert.PollMaxAttempts)
	}
	if cfg.Convert.PageWidthInches != 8.27 || cfg.Convert.PageHeightInches != 11.69 {
		t.Fatalf("unexpected page defaults: %v x %v", cfg.Convert.PageWidthInches, cfg.Convert.PageHeightInches)
	}
	if cfg.Convert.MaxRequestBytes != 15<<20 {
		t.Fatalf("unexpected request cap: %d", cfg.Convert.MaxRequestBytes)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.History.Path != filepath.Join(wantData, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
}

func TestLoadFailsFastWithoutCredentials(t *testing.T) {
	t.Setenv("INKJET_CLIENT_ID", "")
	t.Setenv("INKJET_CLIENT_SECRET", "")
	t.Setenv("HOME", t.TempDir())

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error when credentials are missing")
	}
	if !strings.Contains(err.Error(), "adobe.client_id") {
		t.Fatalf("expected client_id mention, got: %v", err)
	}
}

func TestLoadParsesFileAndEnvWins(t *testing.T) {
	t.Setenv("INKJET_CLIENT_ID", "env-id")
	t.Setenv("INKJET_CLIENT_SECRET", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "inkjet.toml")
	content := `
[adobe]
client_id = "file-id"
client_secret = "file-secret"

[convert]
poll_interval_seconds = 1
poll_max_attempts = 5

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected config file to exist at %q", resolved)
	}
	if cfg.Adobe.ClientID != "env-id" {
		t.Fatalf("expected env client id to win, got %q", cfg.Adobe.ClientID)
	}
	if cfg.Adobe.ClientSecret != "file-secret" {
		t.Fatalf("expected file secret, got %q", cfg.Adobe.ClientSecret)
	}
	if cfg.Convert.PollIntervalSeconds != 1 || cfg.Convert.PollMaxAttempts != 5 {
		t.Fatalf("unexpected poll settings: %d/%d", cfg.Convert.PollIntervalSeconds, cfg.Convert.PollMaxAttempts)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging values, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "zero poll interval",
			mutate: func(c *config.Config) { c.Convert.PollIntervalSeconds = 0 },
			want:   "poll_interval_seconds",
		},
		{
			name:   "negative attempts",
			mutate: func(c *config.Config) { c.Convert.PollMaxAttempts = -1 },
			want:   "poll_max_attempts",
		},
		{
			name:   "zero page width",
			mutate: func(c *config.Config) { c.Convert.PageWidthInches = 0 },
			want:   "page_width_inches",
		},
		{
			name:   "bad base url",
			mutate: func(c *config.Config) { c.Adobe.BaseURL = "ftp://example.com" },
			want:   "adobe.base_url",
		},
		{
			name:   "empty bind",
			mutate: func(c *config.Config) { c.Paths.APIBind = " " },
			want:   "api_bind",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Adobe.ClientID = "id"
			cfg.Adobe.ClientSecret = "secret"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got: %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[adobe]") {
		t.Fatalf("expected adobe section in sample, got: %s", data)
	}
}

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAdobe(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAdobe() error {
	if c.Adobe.ClientID == "" {
		return missingCredentialError("adobe.client_id", "INKJET_CLIENT_ID")
	}
	if c.Adobe.ClientSecret == "" {
		return missingCredentialError("adobe.client_secret", "INKJET_CLIENT_SECRET")
	}
	if !strings.HasPrefix(c.Adobe.BaseURL, "http://") && !strings.HasPrefix(c.Adobe.BaseURL, "https://") {
		return fmt.Errorf("adobe.base_url must be an http(s) URL, got %q", c.Adobe.BaseURL)
	}
	if !strings.HasPrefix(c.Adobe.TokenURL, "http://") && !strings.HasPrefix(c.Adobe.TokenURL, "https://") {
		return fmt.Errorf("adobe.token_url must be an http(s) URL, got %q", c.Adobe.TokenURL)
	}
	return nil
}

func (c *Config) validateConvert() error {
	if err := ensurePositiveMap(map[string]int{
		"convert.poll_interval_seconds": c.Convert.PollIntervalSeconds,
		"convert.poll_max_attempts":     c.Convert.PollMaxAttempts,
		"adobe.timeout_seconds":         c.Adobe.TimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Convert.PageWidthInches <= 0 || c.Convert.PageHeightInches <= 0 {
		return errors.New("convert.page_width_inches and convert.page_height_inches must be positive")
	}
	if c.Convert.MaxRequestBytes <= 0 {
		return errors.New("convert.max_request_bytes must be positive")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.APIBind) == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func missingCredentialError(key, envVar string) error {
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/inkjet/config.toml"
	}
	return fmt.Errorf("%s is required. Set %s env var or edit %s (create with 'inkjet config init')", key, envVar, defaultPath)
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

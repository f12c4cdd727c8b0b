package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"syscall"

	"inkjet/internal/api"
	"inkjet/internal/config"
)

type commandContext struct {
	addressFlag *string
	tokenFlag   *string
	configFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(addressFlag, tokenFlag, configFlag *string) *commandContext {
	return &commandContext{
		addressFlag: addressFlag,
		tokenFlag:   tokenFlag,
		configFlag:  configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// daemonAddress resolves the API base URL from the flag or the configured
// bind address.
func (c *commandContext) daemonAddress() string {
	if c.addressFlag != nil {
		if trimmed := strings.TrimSpace(*c.addressFlag); trimmed != "" {
			return trimmed
		}
	}
	if cfg := c.configValue(); cfg != nil {
		bind := strings.TrimSpace(cfg.Paths.APIBind)
		if bind != "" {
			if strings.Contains(bind, "://") {
				return bind
			}
			return "http://" + bind
		}
	}
	return "http://127.0.0.1:7846"
}

func (c *commandContext) apiToken() string {
	if c.tokenFlag != nil {
		if trimmed := strings.TrimSpace(*c.tokenFlag); trimmed != "" {
			return trimmed
		}
	}
	if cfg := c.configValue(); cfg != nil {
		return strings.TrimSpace(cfg.Paths.APIToken)
	}
	return ""
}

func (c *commandContext) apiClient() (*api.Client, error) {
	return api.NewClient(c.daemonAddress(), api.WithToken(c.apiToken()))
}

func wrapDaemonError(err error, address string) error {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("connect to daemon: %s refused the connection; start the daemon with `inkjetd`", address)
	}
	return err
}

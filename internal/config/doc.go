// Package config loads, normalizes, and validates Inkjet's TOML configuration.
//
// Configuration is resolved from an explicit path, ~/.config/inkjet/config.toml,
// or ./inkjet.toml in that order. Vendor credentials may also be supplied via
// the INKJET_CLIENT_ID and INKJET_CLIENT_SECRET environment variables, which
// take precedence over file values. Credentials are validated at load time so
// a misconfigured daemon fails at startup rather than on the first request.
package config

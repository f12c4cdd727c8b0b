package config

const (
	defaultDataDir = "~/.local/share/inkjet"
	defaultLogDir  = "~/.local/share/inkjet/logs"
	defaultAPIBind = "127.0.0.1:7846"

	defaultAdobeBaseURL        = "https://pdf-services.adobe.io"
	defaultAdobeTokenURL       = "https://ims-na1.adobelogin.com/ims/token/v3"
	defaultAdobeScope          = "openid,AdobeID,DCAPI"
	defaultAdobeTimeoutSeconds = 60

	defaultPollIntervalSeconds = 2
	defaultPollMaxAttempts     = 20

	// A4 dimensions in inches.
	defaultPageWidthInches  = 8.27
	defaultPageHeightInches = 11.69

	defaultMaxRequestBytes = 15 << 20

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Adobe: Adobe{
			BaseURL:        defaultAdobeBaseURL,
			TokenURL:       defaultAdobeTokenURL,
			Scope:          defaultAdobeScope,
			TimeoutSeconds: defaultAdobeTimeoutSeconds,
		},
		Convert: Convert{
			PollIntervalSeconds: defaultPollIntervalSeconds,
			PollMaxAttempts:     defaultPollMaxAttempts,
			IncludeHeaderFooter: false,
			PageWidthInches:     defaultPageWidthInches,
			PageHeightInches:    defaultPageHeightInches,
			MaxRequestBytes:     defaultMaxRequestBytes,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

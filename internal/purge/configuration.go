package purge

import (
	"strings"
	"time"

	"github.com/temirov/draftsweep/internal/githubapi"
)

const (
	defaultTokenSourceValueConstant  = "env:GITHUB_TOKEN"
	defaultPageSizeConstant          = githubapi.DefaultPageSize
	defaultRequestTimeoutConstant    = githubapi.DefaultRequestTimeout
	defaultListRetryAttemptsConstant = githubapi.DefaultListRetryAttempts
)

// Configuration aggregates settings for the purge command.
type Configuration struct {
	Purge PurgeConfiguration `mapstructure:"purge"`
}

// PurgeConfiguration stores options for sweeping draft releases.
type PurgeConfiguration struct {
	Repository        string        `mapstructure:"repository"`
	Threshold         string        `mapstructure:"threshold"`
	TokenSource       string        `mapstructure:"token_source"`
	DryRun            bool          `mapstructure:"dry_run"`
	MaxConcurrency    int           `mapstructure:"max_concurrency"`
	ServiceBaseURL    string        `mapstructure:"service_base_url"`
	PageSize          int           `mapstructure:"page_size"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	ListRetryAttempts int           `mapstructure:"list_retry_attempts"`
}

// DefaultConfiguration supplies baseline values for the purge command.
func DefaultConfiguration() Configuration {
	return Configuration{
		Purge: PurgeConfiguration{
			TokenSource:       defaultTokenSourceValueConstant,
			PageSize:          defaultPageSizeConstant,
			RequestTimeout:    defaultRequestTimeoutConstant,
			ListRetryAttempts: defaultListRetryAttemptsConstant,
		},
	}
}

// Sanitize trims configured values and replaces out-of-range numbers with defaults.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Purge = configuration.Purge.Sanitize()
	return sanitized
}

// Sanitize trims purge configuration values and replaces out-of-range numbers with defaults.
func (configuration PurgeConfiguration) Sanitize() PurgeConfiguration {
	sanitized := configuration
	sanitized.Repository = strings.TrimSpace(configuration.Repository)
	sanitized.Threshold = strings.TrimSpace(configuration.Threshold)
	sanitized.TokenSource = strings.TrimSpace(configuration.TokenSource)
	sanitized.ServiceBaseURL = strings.TrimSpace(configuration.ServiceBaseURL)

	if len(sanitized.TokenSource) == 0 {
		sanitized.TokenSource = defaultTokenSourceValueConstant
	}
	if sanitized.MaxConcurrency < 0 {
		sanitized.MaxConcurrency = 0
	}
	if sanitized.PageSize <= 0 {
		sanitized.PageSize = defaultPageSizeConstant
	}
	if sanitized.RequestTimeout <= 0 {
		sanitized.RequestTimeout = defaultRequestTimeoutConstant
	}
	if sanitized.ListRetryAttempts < 0 {
		sanitized.ListRetryAttempts = 0
	}
	return sanitized
}

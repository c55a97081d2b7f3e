package types

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// HTTPConfig holds shared HTTP settings for requests to the lookup API.
type HTTPConfig struct {
	// Timeout bounds a single request, including retries.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ClientConfig holds settings for the company_dns API client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Hosts maps a host name (as shown to the user) to its base URL.
	Hosts map[string]string `json:"hosts" yaml:"hosts" mapstructure:"hosts"`

	// PrimaryHost is the host used when none is selected.
	PrimaryHost string `json:"primary_host" yaml:"primary_host" mapstructure:"primary_host"`

	// RequestsPerSecond paces outbound requests. Zero disables pacing.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxRetries bounds retries of transient failures and HTTP 429.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// SearchCacheTTL is how long search responses stay cached (default 10m).
	SearchCacheTTL time.Duration `json:"search_cache_ttl" yaml:"search_cache_ttl" mapstructure:"search_cache_ttl"`

	// StaticCacheTTL is how long static SIC lookups stay cached (default 24h).
	StaticCacheTTL time.Duration `json:"static_cache_ttl" yaml:"static_cache_ttl" mapstructure:"static_cache_ttl"`
}

// ExplorerConfig holds result browsing defaults.
type ExplorerConfig struct {
	// PerPage is the initial page size; it must be one of 10, 25, 50, 100.
	PerPage int `json:"per_page" yaml:"per_page" mapstructure:"per_page"`
}

// StoreDisabled is the StoreConfig.Path value that turns persistence off.
const StoreDisabled = "off"

// StoreConfig locates the local preference and cache database.
type StoreConfig struct {
	// Path is the SQLite file. "off" disables persistence; empty selects
	// ~/.config/company-dns/company-dns.db.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig selects the log level and handler format ("text" or "json").
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups every setting; it is built once at startup and passed
// explicitly to the components that need it.
type Config struct {
	Client   ClientConfig   `json:"client" yaml:"client" mapstructure:"client"`
	Explorer ExplorerConfig `json:"explorer" yaml:"explorer" mapstructure:"explorer"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Client: ClientConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "company-dns/0.1",
			},
			Hosts: map[string]string{
				"localhost:8000":             "http://localhost:8000",
				"company-dns.mediumroast.io": "https://company-dns.mediumroast.io",
			},
			PrimaryHost:       "company-dns.mediumroast.io",
			RequestsPerSecond: 5,
			MaxRetries:        3,
			SearchCacheTTL:    10 * time.Minute,
			StaticCacheTTL:    24 * time.Hour,
		},
		Explorer: ExplorerConfig{PerPage: 10},
		Log:      LogConfig{Level: "warn", Format: "text"},
	}
}

// HostNames returns the configured host names, sorted.
func (c ClientConfig) HostNames() []string {
	names := make([]string, 0, len(c.Hosts))
	for name := range c.Hosts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BaseURL resolves host to a base URL. An empty host selects the primary
// host; a value that already carries an http or https scheme is used as is.
func (c ClientConfig) BaseURL(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		host = c.PrimaryHost
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return strings.TrimRight(host, "/"), nil
	}
	if u, ok := c.Hosts[host]; ok {
		return strings.TrimRight(u, "/"), nil
	}
	return "", fmt.Errorf("unknown host %q: configured hosts are %s", host, strings.Join(c.HostNames(), ", "))
}

// Package config provides configuration management for the Flywheel application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAPIURL      = "https://api.github.com"
	defaultHTTPTimeout = 30 * time.Second
)

// Config holds the application configuration. It is loaded once at
// startup and passed explicitly to every component that needs it.
type Config struct {
	// GitHubToken is the API token for authenticating with GitHub.
	GitHubToken string
	// GitHubAPIURL is the API root. Defaults to the public API; set it
	// for GitHub Enterprise installations.
	GitHubAPIURL string
	// HTTPTimeout bounds every API request from dispatch to the end of
	// the response body.
	HTTPTimeout time.Duration
	// RedpandaBrokers lists broker addresses for publishing run events.
	// Empty means the event bridge stays in process.
	RedpandaBrokers []string
}

// LoadFromEnv loads configuration from environment variables.
//
//	GITHUB_TOKEN          required
//	GITHUB_API_URL        optional, defaults to https://api.github.com
//	FLYWHEEL_HTTP_TIMEOUT optional, whole seconds, defaults to 30
//	REDPANDA_BROKERS      optional, comma-separated host:port list
func LoadFromEnv() (*Config, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is required")
	}

	apiURL := os.Getenv("GITHUB_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	timeout := defaultHTTPTimeout
	if raw := os.Getenv("FLYWHEEL_HTTP_TIMEOUT"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("FLYWHEEL_HTTP_TIMEOUT must be a positive number of seconds, got %q", raw)
		}
		timeout = time.Duration(seconds) * time.Second
	}

	var brokers []string
	if raw := os.Getenv("REDPANDA_BROKERS"); raw != "" {
		for _, broker := range strings.Split(raw, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				brokers = append(brokers, broker)
			}
		}
	}

	return &Config{
		GitHubToken:     token,
		GitHubAPIURL:    apiURL,
		HTTPTimeout:     timeout,
		RedpandaBrokers: brokers,
	}, nil
}

// MustLoadFromEnv loads configuration from environment variables and panics on error.
// This is useful for initialization in main() where configuration errors should be fatal.
func MustLoadFromEnv() *Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

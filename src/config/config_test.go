package config

import (
	"os"
	"testing"
	"time"
)

// clearEnv unsets every variable the loader reads and restores the
// originals when the test finishes.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GITHUB_TOKEN", "GITHUB_API_URL", "FLYWHEEL_HTTP_TIMEOUT", "REDPANDA_BROKERS"} {
		original, wasSet := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if wasSet {
				os.Setenv(key, original)
			} else {
				os.Unsetenv(key)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("valid token with defaults", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("GITHUB_TOKEN", "ghp_test12345")

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() unexpected error: %v", err)
		}

		if cfg.GitHubToken != "ghp_test12345" {
			t.Errorf("LoadFromEnv() token = %v, want ghp_test12345", cfg.GitHubToken)
		}
		if cfg.GitHubAPIURL != "https://api.github.com" {
			t.Errorf("LoadFromEnv() api url = %v, want public API default", cfg.GitHubAPIURL)
		}
		if cfg.HTTPTimeout != 30*time.Second {
			t.Errorf("LoadFromEnv() timeout = %v, want 30s", cfg.HTTPTimeout)
		}
		if cfg.RedpandaBrokers != nil {
			t.Errorf("LoadFromEnv() brokers = %v, want nil", cfg.RedpandaBrokers)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		clearEnv(t)

		_, err := LoadFromEnv()
		if err == nil {
			t.Error("LoadFromEnv() expected error for missing token, got nil")
		}
	})

	t.Run("empty token", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("GITHUB_TOKEN", "")

		_, err := LoadFromEnv()
		if err == nil {
			t.Error("LoadFromEnv() expected error for empty token, got nil")
		}
	})

	t.Run("custom api url and timeout", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("GITHUB_TOKEN", "ghp_test12345")
		os.Setenv("GITHUB_API_URL", "https://ghe.example.com/api/v3")
		os.Setenv("FLYWHEEL_HTTP_TIMEOUT", "5")

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() unexpected error: %v", err)
		}
		if cfg.GitHubAPIURL != "https://ghe.example.com/api/v3" {
			t.Errorf("LoadFromEnv() api url = %v", cfg.GitHubAPIURL)
		}
		if cfg.HTTPTimeout != 5*time.Second {
			t.Errorf("LoadFromEnv() timeout = %v, want 5s", cfg.HTTPTimeout)
		}
	})

	t.Run("invalid timeout", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("GITHUB_TOKEN", "ghp_test12345")
		os.Setenv("FLYWHEEL_HTTP_TIMEOUT", "soon")

		if _, err := LoadFromEnv(); err == nil {
			t.Error("LoadFromEnv() expected error for non-numeric timeout, got nil")
		}

		os.Setenv("FLYWHEEL_HTTP_TIMEOUT", "0")
		if _, err := LoadFromEnv(); err == nil {
			t.Error("LoadFromEnv() expected error for zero timeout, got nil")
		}
	})

	t.Run("broker list", func(t *testing.T) {
		clearEnv(t)
		os.Setenv("GITHUB_TOKEN", "ghp_test12345")
		os.Setenv("REDPANDA_BROKERS", "localhost:19092, broker2:19092,")

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() unexpected error: %v", err)
		}
		want := []string{"localhost:19092", "broker2:19092"}
		if len(cfg.RedpandaBrokers) != len(want) {
			t.Fatalf("LoadFromEnv() brokers = %v, want %v", cfg.RedpandaBrokers, want)
		}
		for i := range want {
			if cfg.RedpandaBrokers[i] != want[i] {
				t.Errorf("brokers[%d] = %v, want %v", i, cfg.RedpandaBrokers[i], want[i])
			}
		}
	})
}

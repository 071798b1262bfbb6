package config

import (
	"os"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"EVENTDIR_BACKEND",
			"EVENTDIR_BASE_URL",
			"EVENTDIR_HTTP_TIMEOUT",
			"EVENTDIR_TOKEN_DSN",
			"EVENTDIR_HTTP_PORT",
			"EVENTDIR_SESSION_SECRET",
			"EVENTDIR_SESSION_TTL",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.Backend != BackendMemory {
			t.Fatalf("expected default backend %q, got %q", BackendMemory, cfg.Backend)
		}
		if cfg.HTTPTimeout != 15*time.Second {
			t.Fatalf("expected default HTTP timeout 15s, got %s", cfg.HTTPTimeout)
		}
		if cfg.TokenDSN != "file:eventdir.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.TokenDSN)
		}
		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SessionTTL != 24*time.Hour {
			t.Fatalf("expected default session TTL 24h, got %s", cfg.SessionTTL)
		}
		if cfg.SessionSecret != "" {
			t.Fatalf("expected empty session secret, got %q", cfg.SessionSecret)
		}
	})

	t.Run("requires a base URL for the remote backend", func(t *testing.T) {
		t.Setenv("EVENTDIR_SESSION_SECRET", "secret-value")
		t.Setenv("EVENTDIR_BACKEND", "remote")
		if err := os.Unsetenv("EVENTDIR_BASE_URL"); err != nil {
			t.Fatalf("failed to unset EVENTDIR_BASE_URL: %v", err)
		}

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error when remote backend has no base URL")
		}
		expected := "missing required environment variables: EVENTDIR_BASE_URL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("parses duration and numeric fields", func(t *testing.T) {
		t.Setenv("EVENTDIR_SESSION_SECRET", "secret-value")
		t.Setenv("EVENTDIR_BACKEND", "remote")
		t.Setenv("EVENTDIR_BASE_URL", "https://api.example.com")
		t.Setenv("EVENTDIR_HTTP_TIMEOUT", "30s")
		t.Setenv("EVENTDIR_TOKEN_DSN", "file:/tmp/eventdir.db")
		t.Setenv("EVENTDIR_HTTP_PORT", "9090")
		t.Setenv("EVENTDIR_SESSION_TTL", "72h")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.Backend != BackendRemote {
			t.Fatalf("expected backend %q, got %q", BackendRemote, cfg.Backend)
		}
		if cfg.BaseURL != "https://api.example.com" {
			t.Fatalf("unexpected base URL: %q", cfg.BaseURL)
		}
		if cfg.HTTPTimeout != 30*time.Second {
			t.Fatalf("expected HTTP timeout 30s, got %s", cfg.HTTPTimeout)
		}
		if cfg.TokenDSN != "file:/tmp/eventdir.db" {
			t.Fatalf("unexpected DSN: %q", cfg.TokenDSN)
		}
		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SessionTTL != 72*time.Hour {
			t.Fatalf("expected session TTL 72h, got %s", cfg.SessionTTL)
		}
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		t.Setenv("EVENTDIR_SESSION_SECRET", "secret-value")
		t.Setenv("EVENTDIR_BACKEND", "firebase")
		t.Setenv("EVENTDIR_HTTP_PORT", "not-a-port")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected error for malformed values")
		}
		expected := "invalid environment variable values: EVENTDIR_BACKEND, EVENTDIR_HTTP_PORT"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}

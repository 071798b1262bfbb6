package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// BackendKind selects which directory backend a process talks to.
type BackendKind string

const (
	// BackendMemory runs against the seeded in-memory dataset.
	BackendMemory BackendKind = "memory"
	// BackendRemote runs against the live HTTP service.
	BackendRemote BackendKind = "remote"
)

// Config captures environment driven configuration values for the directory
// service and the reference wire server.
type Config struct {
	// Backend picks the adapter at construction time.
	Backend BackendKind
	// BaseURL roots the remote backend's wire API. Required for remote.
	BaseURL string
	// HTTPTimeout bounds each remote call.
	HTTPTimeout time.Duration
	// TokenDSN locates the SQLite database persisting the session token.
	TokenDSN string

	// HTTPPort is where the reference server listens.
	HTTPPort int
	// SessionSecret signs the server's bearer tokens. Only the wire server
	// requires it; client processes may leave it empty.
	SessionSecret string
	// SessionTTL bounds how long an issued token restores a session.
	SessionTTL time.Duration
}

// Load parses configuration values from the current process environment.
//
// The loader applies defaults for optional fields while validating required
// values, and aggregates missing or invalid entries into one error.
func Load() (Config, error) {
	cfg := Config{
		Backend:     BackendMemory,
		HTTPTimeout: 15 * time.Second,
		TokenDSN:    "file:eventdir.db",
		HTTPPort:    8080,
		SessionTTL:  24 * time.Hour,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if backend := strings.TrimSpace(os.Getenv("EVENTDIR_BACKEND")); backend != "" {
		switch BackendKind(backend) {
		case BackendMemory, BackendRemote:
			cfg.Backend = BackendKind(backend)
		default:
			invalid = append(invalid, "EVENTDIR_BACKEND")
		}
	}

	if baseURL := strings.TrimSpace(os.Getenv("EVENTDIR_BASE_URL")); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if cfg.Backend == BackendRemote && cfg.BaseURL == "" {
		missing = append(missing, "EVENTDIR_BASE_URL")
	}

	if timeoutValue := strings.TrimSpace(os.Getenv("EVENTDIR_HTTP_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "EVENTDIR_HTTP_TIMEOUT")
		} else {
			cfg.HTTPTimeout = timeout
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("EVENTDIR_TOKEN_DSN")); dsn != "" {
		cfg.TokenDSN = dsn
	}

	if portValue := strings.TrimSpace(os.Getenv("EVENTDIR_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "EVENTDIR_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	cfg.SessionSecret = strings.TrimSpace(os.Getenv("EVENTDIR_SESSION_SECRET"))

	if ttlValue := strings.TrimSpace(os.Getenv("EVENTDIR_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "EVENTDIR_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

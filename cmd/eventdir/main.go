package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/example/event-directory/internal/config"
	"github.com/example/event-directory/internal/directory"
	"github.com/example/event-directory/internal/directory/memory"
	"github.com/example/event-directory/internal/directory/remote"
	"github.com/example/event-directory/internal/logging"
	"github.com/example/event-directory/internal/tokenvault/sqlite"
)

// buildService assembles the directory service from configuration: the
// backend named by cfg.Backend plus the SQLite token vault at cfg.TokenDSN.
// The returned cleanup closes the vault.
func buildService(cfg config.Config, logger *slog.Logger) (*directory.Service, func() error, error) {
	vault, err := sqlite.Open(cfg.TokenDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open token vault: %w", err)
	}

	var backend directory.Backend
	switch cfg.Backend {
	case config.BackendMemory:
		backend = memory.New(memory.Options{})
	case config.BackendRemote:
		client := &http.Client{Timeout: cfg.HTTPTimeout}
		backend, err = remote.New(cfg.BaseURL, client, logger)
		if err != nil {
			vault.Close()
			return nil, nil, fmt.Errorf("build remote backend: %w", err)
		}
	default:
		vault.Close()
		return nil, nil, fmt.Errorf("unknown backend kind %q", cfg.Backend)
	}

	svc := directory.NewService(backend, vault, logger, nil)
	return svc, vault.Close, nil
}

func main() {
	email := flag.String("email", memory.DemoEmail, "account email")
	password := flag.String("password", memory.DemoPassword, "account password")
	lat := flag.Float64("lat", 41.03, "query center latitude")
	lng := flag.Float64("lng", 29.00, "query center longitude")
	radius := flag.Float64("radius", 5, "query radius in kilometers")
	flag.Parse()

	logger := logging.New(os.Stderr, slog.LevelWarn)
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	svc, cleanup, err := buildService(cfg, logger)
	if err != nil {
		logger.Error("failed to build directory service", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	resp, ok := svc.RestoreSession(ctx)
	if !ok {
		resp, err = svc.Login(ctx, *email, *password)
		if err != nil {
			logger.Error("failed to sign in", "error", err)
			os.Exit(1)
		}
	}
	fmt.Printf("signed in as %s (%s)\n", resp.User.DisplayName, resp.User.City)

	categories, err := svc.Categories(ctx)
	if err != nil {
		logger.Error("failed to load categories", "error", err)
		os.Exit(1)
	}
	fmt.Println("categories:")
	for _, category := range categories {
		fmt.Printf("  %-10s %s\n", category.Key, category.Name)
	}

	events, err := svc.NearbyEvents(ctx, *lat, *lng, *radius)
	if err != nil {
		logger.Error("failed to query nearby events", "error", err)
		os.Exit(1)
	}
	fmt.Printf("events within %.1f km of (%.4f, %.4f):\n", *radius, *lat, *lng)
	for _, event := range events {
		fmt.Printf("  %s  %s [%s]\n", event.StartTimeUTC.Format("2006-01-02 15:04"), event.Title, event.CategoryKey)
	}
}

// Command topicchat is a terminal client for a topic-based question
// answering backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/custodia-labs/topicchat/internal/adapters/driven/backend/rest"
	"github.com/custodia-labs/topicchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/topicchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/topicchat/internal/core/services"
	"github.com/custodia-labs/topicchat/internal/logger"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetServiceFactory(wire)

	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// wire builds the services for one invocation from the config file, the
// environment and the global flags.
func wire(_ context.Context, opts cli.Options) (*cli.Services, error) {
	store, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(store)

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings from %s: %w", store.Path(), err)
	}
	if opts.BackendURL != "" {
		settings.Backend.URL = strings.TrimRight(opts.BackendURL, "/")
	}
	if opts.Verbose {
		settings.Log.Verbose = true
	}
	if err := settingsService.Validate(settings); err != nil {
		return nil, err
	}

	logger.SetVerbose(settings.Log.Verbose)
	if err := logger.SetFile(logger.FileConfig{
		Path:       settings.Log.File,
		MaxSizeMB:  settings.Log.MaxSizeMB,
		MaxBackups: settings.Log.MaxBackups,
		MaxAgeDays: settings.Log.MaxAgeDays,
	}); err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.Debug("backend %s, config %s", settings.Backend.URL, store.Path())

	client := rest.NewClient(rest.Config{
		BaseURL:   settings.Backend.URL,
		Timeout:   settings.Backend.Timeout,
		RateLimit: settings.Backend.RateLimit,
		Retry: rest.RetryPolicy{
			MaxAttempts: settings.Retry.MaxAttempts,
			Backoff:     settings.Retry.Backoff,
		},
	})
	chat := services.NewChatService(client)

	return &cli.Services{
		Chat:     chat,
		Settings: settingsService,
		Watcher:  store,
		Close: func() {
			chat.Close()
			if err := logger.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "closing log file: %v\n", err)
			}
		},
	}, nil
}

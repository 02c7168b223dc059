package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driving/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web interface",
	Long: `Starts the web interface and JSON API.

The listen address defaults to server.addr. Edits to the config file are
picked up while running: allowed hosts, limits, log level and the rate
limit apply to the next request.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if caseService == nil || ingestService == nil || settingsService == nil {
		return errors.New("services not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	limiter := web.NewRateLimiter(settings.RateLimit.RequestsPerMinute)
	opts := []web.Option{
		web.WithLogger(appLogger),
		web.WithRateLimiter(limiter),
		web.WithSecretKey(settings.Server.SecretKey),
		web.WithDebug(settings.Server.Debug),
	}
	if httpMetrics != nil {
		opts = append(opts, web.WithMetrics(httpMetrics))
	}

	server, err := web.NewServer(web.Ports{Cases: caseService, Ingest: ingestService}, opts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if configWatcher != nil {
		err := configWatcher.Watch(ctx, func(err error) {
			if err != nil {
				appLogger.Warn("config reload: %v", err)
				return
			}
			updated, err := settingsService.Get()
			if err != nil {
				appLogger.Warn("config reload: %v", err)
				return
			}
			limiter.SetRate(updated.RateLimit.RequestsPerMinute)
			if reloadSettings != nil {
				reloadSettings(updated)
			}
			appLogger.Info("configuration reloaded")
		})
		if err != nil {
			appLogger.Warn("config changes will need a restart: %v", err)
		}
	}

	addr := serveAddr
	if addr == "" {
		addr = settings.Server.Addr
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s\n", addr)
	return server.ListenAndServe(ctx, addr)
}

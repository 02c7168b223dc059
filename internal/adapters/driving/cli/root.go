// Package cli provides the courtfetch command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driving/web"
	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driving"
	"github.com/custodia-labs/court-case-fetcher/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// ConfigWatcher reloads configuration when its backing file changes.
type ConfigWatcher interface {
	Watch(ctx context.Context, onChange func(error)) error
}

// Services holds everything the commands drive.
type Services struct {
	Cases       driving.CaseService
	Ingest      driving.IngestService
	Settings    driving.SettingsService
	Maintenance driving.MaintenanceService
	Logger      *logger.Logger
	Metrics     web.Metrics

	// Watcher and Reload are optional; with both set, serve applies
	// configuration changes without a restart.
	Watcher ConfigWatcher
	Reload  func(*domain.AppSettings)
}

var (
	caseService        driving.CaseService
	ingestService      driving.IngestService
	settingsService    driving.SettingsService
	maintenanceService driving.MaintenanceService
	appLogger          = logger.Nop()
	httpMetrics        web.Metrics
	configWatcher      ConfigWatcher
	reloadSettings     func(*domain.AppSettings)

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "courtfetch",
	Short: "Fetch court case metadata and order documents",
	Long: `courtfetch looks up cases on the court portal, downloads their order
documents within strict size and time bounds, extracts the order text and
stores everything in a local SQLite database.

Run 'courtfetch serve' for the web interface, or use the fetch, case and
batch commands directly.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			appLogger.SetLevel(logger.LevelDebug)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices wires the services used by every command.
func SetServices(s Services) {
	caseService = s.Cases
	ingestService = s.Ingest
	settingsService = s.Settings
	maintenanceService = s.Maintenance
	if s.Logger != nil {
		appLogger = s.Logger
	}
	httpMetrics = s.Metrics
	configWatcher = s.Watcher
	reloadSettings = s.Reload
}

// SetVersion sets the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Errors are returned, not printed.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

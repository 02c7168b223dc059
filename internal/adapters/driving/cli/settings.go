package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in the config file.

Environment variables (COURTFETCH_<SECTION>_<KEY>, or the legacy names such
as REQUEST_TIMEOUT and MAX_PDF_SIZE) take precedence over the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Validate and store one setting.

List values such as ingest.allowed_hosts are comma separated. Durations
accept Go syntax (30s, 2m) or a plain number of seconds.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", settingsService.Path())
	cmd.Printf("Profile: %s\n", settings.Profile)
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Request timeout: %s\n", settings.Ingest.RequestTimeout)
	cmd.Printf("  Max document size: %d bytes\n", settings.Ingest.MaxDocumentBytes)
	cmd.Printf("  Allowed hosts: %s\n", strings.Join(settings.Ingest.AllowedHosts, ", "))
	cmd.Printf("  Max text length: %d\n", settings.Ingest.MaxTextLength)
	cmd.Printf("  Max pages: %d\n", settings.Ingest.MaxPages)
	cmd.Printf("  Chunk size: %d\n", settings.Ingest.ChunkSize)
	cmd.Printf("  Download dir: %s\n", settings.Ingest.DownloadDir)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	if settings.Server.SecretKey != "" {
		cmd.Printf("  Secret key: %s\n", maskSecret(settings.Server.SecretKey))
	} else {
		cmd.Printf("  Secret key: (not set)\n")
	}
	cmd.Printf("  Debug: %t\n", settings.Server.Debug)
	cmd.Println()

	cmd.Println("[Rate limit]")
	cmd.Printf("  Requests per minute: %d\n", settings.RateLimit.RequestsPerMinute)
	cmd.Println()

	cmd.Println("[Logging]")
	cmd.Printf("  Level: %s\n", settings.Logging.Level)
	if settings.Logging.File != "" {
		cmd.Printf("  File: %s\n", settings.Logging.File)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func maskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

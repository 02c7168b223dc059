package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driving"
)

var (
	initSeed  bool
	initReset bool
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the database schema",
	Long: `Creates the database and applies pending schema migrations.

--reset deletes every stored search, case and order first.
--seed adds the sample case WP(C)/1234/2023.`,
	Args: cobra.NoArgs,
	RunE: runInitDB,
}

func init() {
	initDBCmd.Flags().BoolVar(&initSeed, "seed", false, "insert the sample case")
	initDBCmd.Flags().BoolVar(&initReset, "reset", false, "delete all stored data first")
	rootCmd.AddCommand(initDBCmd)
}

func runInitDB(cmd *cobra.Command, _ []string) error {
	if maintenanceService == nil {
		return errors.New("maintenance service not configured")
	}

	report, err := maintenanceService.InitDatabase(cmd.Context(), driving.InitOptions{
		Reset: initReset,
		Seed:  initSeed,
	})
	if err != nil {
		return fmt.Errorf("database initialisation failed: %w", err)
	}

	cmd.Printf("Database ready at %s\n", report.Location)
	if report.Reset {
		cmd.Println("All stored data deleted.")
	}
	if report.SeededID > 0 {
		cmd.Printf("Sample case stored as #%d\n", report.SeededID)
	}
	return nil
}

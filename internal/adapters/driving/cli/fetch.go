package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	fetchJSON bool
	fetchFull bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <case-type> <case-number> <filing-year>",
	Short: "Look up a case and store it",
	Long: `Looks up a case on the court portal, downloads every order document,
extracts its text and stores the result.

Example:
  courtfetch fetch "WP(C)" 1234/2023 2023`,
	Args: cobra.ExactArgs(3),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "output the case as JSON")
	fetchCmd.Flags().BoolVar(&fetchFull, "full", false, "show complete order text")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if caseService == nil {
		return errors.New("case service not configured")
	}

	c, err := caseService.Search(cmd.Context(), args[1], args[0], args[2])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if fetchJSON {
		return writeJSON(cmd.OutOrStdout(), c)
	}
	renderCase(cmd.OutOrStdout(), c, fetchFull)
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	caseJSON    bool
	caseFull    bool
	recentLimit int
)

var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Inspect stored cases",
	Long:  `List stored cases, show a case with its orders, or review search history.`,
}

var caseGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a stored case",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaseGet,
}

var caseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored cases, newest first",
	Args:  cobra.NoArgs,
	RunE:  runCaseList,
}

var caseRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent searches, including failed ones",
	Args:  cobra.NoArgs,
	RunE:  runCaseRecent,
}

func init() {
	caseCmd.PersistentFlags().BoolVar(&caseJSON, "json", false, "output as JSON")
	caseGetCmd.Flags().BoolVar(&caseFull, "full", false, "show complete order text")
	caseRecentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 20, "maximum number of searches")

	caseCmd.AddCommand(caseGetCmd)
	caseCmd.AddCommand(caseListCmd)
	caseCmd.AddCommand(caseRecentCmd)
	rootCmd.AddCommand(caseCmd)
}

func runCaseGet(cmd *cobra.Command, args []string) error {
	if caseService == nil {
		return errors.New("case service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid case id %q", args[0])
	}

	c, err := caseService.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get case: %w", err)
	}

	if caseJSON {
		return writeJSON(cmd.OutOrStdout(), c)
	}
	renderCase(cmd.OutOrStdout(), c, caseFull)
	return nil
}

func runCaseList(cmd *cobra.Command, _ []string) error {
	if caseService == nil {
		return errors.New("case service not configured")
	}

	cases, err := caseService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list cases: %w", err)
	}

	if caseJSON {
		return writeJSON(cmd.OutOrStdout(), cases)
	}
	renderCaseList(cmd.OutOrStdout(), cases)
	return nil
}

func runCaseRecent(cmd *cobra.Command, _ []string) error {
	if caseService == nil {
		return errors.New("case service not configured")
	}

	records, err := caseService.Recent(cmd.Context(), recentLimit)
	if err != nil {
		return fmt.Errorf("failed to get recent searches: %w", err)
	}

	if caseJSON {
		return writeJSON(cmd.OutOrStdout(), records)
	}
	renderSearches(cmd.OutOrStdout(), records)
	return nil
}

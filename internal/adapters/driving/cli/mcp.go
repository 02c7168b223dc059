package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol integration",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose case lookups to MCP clients",
	Long: `Runs an MCP server so AI assistants can look up and read cases.

Tools:     lookup_case, get_case, recent_searches
Resources: courtfetch://cases, courtfetch://cases/{id}

The server speaks JSON-RPC over stdio unless --port is given, in which case
it serves the streamable HTTP transport on that port.

  courtfetch mcp serve
  courtfetch mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "serve HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if caseService == nil {
		return errors.New("case service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{Cases: caseService}, mcp.WithLogger(appLogger))
	if err != nil {
		return err
	}

	if mcpPort <= 0 {
		// stdout carries the protocol; nothing else may be printed.
		return server.Run(cmd.Context())
	}

	addr := fmt.Sprintf(":%d", mcpPort)
	cmd.Printf("MCP server listening on http://localhost%s\n", addr)
	return server.RunHTTP(cmd.Context(), addr)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/denysvitali/meshscan/pkg/config"
	"github.com/denysvitali/meshscan/pkg/mcp"
	"github.com/denysvitali/meshscan/pkg/scanner"
	"github.com/denysvitali/meshscan/pkg/telemetry"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the scanner as an MCP tool over stdio",
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sc, err := scanner.New(cfg.Scan.Extension, logger)
	if err != nil {
		return fmt.Errorf("failed to create scanner: %w", err)
	}

	return mcp.NewServer(logger, sc, telemetry.Version).ServeStdio()
}

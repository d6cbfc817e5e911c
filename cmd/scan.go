package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/denysvitali/meshscan/pkg/config"
	"github.com/denysvitali/meshscan/pkg/scanner"
	"github.com/denysvitali/meshscan/pkg/telemetry"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "List mesh files below a directory",
	Long: `Recursively scan root (default: the configured scan.root, or the current
directory) and print every file carrying the target extension, one per line.
Any directory that cannot be read aborts the scan with a non-zero exit code.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().Bool("json", false, "Print results as a JSON array")
	_ = viper.BindPFlag("scan.json", scanCmd.Flags().Lookup("json"))
}

func runScan(cmd *cobra.Command, args []string) error {
	logger := GetLogger()

	if len(args) == 1 {
		viper.Set("scan.root", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Telemetry.Enabled {
		cleanup, err := telemetry.Initialize(cfg.Telemetry, logger)
		if err != nil {
			logger.Warnf("Failed to initialize telemetry: %v", err)
		} else {
			defer cleanup()
		}
	}

	// Status lines share stdout with the plain listing; JSON output keeps stdout parseable.
	status := cmd.OutOrStdout()
	if cfg.Scan.JSON {
		status = cmd.ErrOrStderr()
	}

	sc, err := scanner.New(cfg.Scan.Extension, logger, scanner.WithOutput(status))
	if err != nil {
		return fmt.Errorf("failed to create scanner: %w", err)
	}

	meshes := sc.ScanForMeshes(cmd.Context(), cfg.Scan.Root)
	return printMeshes(cmd.OutOrStdout(), meshes, cfg.Scan.JSON)
}

func printMeshes(w io.Writer, meshes []string, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meshes)
	}

	for _, mesh := range meshes {
		if _, err := fmt.Fprintln(w, mesh); err != nil {
			return err
		}
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/texharvest/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render RAM and disk usage charts from a finished run",
	Long: `Report reads the resource time series a monitored run wrote under the
metrics directory and renders ram_usage.png and disk_usage.png line charts
next to it.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("metrics-dir", "", "metrics directory (default from config)")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	dir, _ := cmd.Flags().GetString("metrics-dir")
	if dir == "" {
		dir = cfg.MetricsDir
	}

	if err := report.Render(dir); err != nil {
		return err
	}
	fmt.Printf("Wrote %s and %s under %s.\n", report.RAMChartFile, report.DiskChartFile, dir)
	return nil
}

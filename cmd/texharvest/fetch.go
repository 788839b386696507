// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/texharvest/internal/harvest"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [identifiers...]",
	Short: "Harvest specific papers, bypassing the configured list",
	Long: `Fetch harvests the given arXiv identifiers (dotted 1706.03762 or dashed
1706-03762 form) without touching the configured paper list or progress
tracking. Useful for spot checks and one-off downloads.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default from config)")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive papers (default from config)")
	fetchCmd.Flags().String("output-dir", "", "base directory for harvested papers (default from config)")
	fetchCmd.Flags().String("api-key", "", "Semantic Scholar API key (default: .secrets/semantic-scholar-api-key)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more arXiv identifiers")
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.HTTPTimeout.Duration = timeout
	}
	if delay, _ := cmd.Flags().GetDuration("delay"); delay > 0 {
		cfg.PaperDelay.Duration = delay
	}
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.OutputDir = dir
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	hc := cfg.HarvestConfig()
	h := newHarvester(hc, scholarAPIKey(apiKey))

	result := h.HarvestBatch(cmd.Context(), args, hc, harvest.BatchOptions{}, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d of %d paper(s) failed", result.Failed, result.Total())
	}
	return nil
}

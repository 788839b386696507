// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/texharvest/internal/arxiv"
)

var versionsCmd = &cobra.Command{
	Use:   "versions [identifier]",
	Short: "Print the submission history of one paper",
	RunE:  runVersions,
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("provide exactly one arXiv identifier")
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	id, _, err := arxiv.Parse(args[0])
	if err != nil {
		return err
	}

	h := newHarvester(cfg.HarvestConfig(), "")
	history, err := h.Arxiv.VersionHistory(cmd.Context(), id)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d version(s)\n", id, len(history))
	for _, v := range history {
		if v.Date != "" {
			fmt.Printf("  v%d  %s\n", v.Number, v.Date)
		} else {
			fmt.Printf("  v%d\n", v.Number)
		}
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/texharvest/internal/arxiv"
	"github.com/pdiddy/texharvest/internal/scholar"
)

var refsCmd = &cobra.Command{
	Use:   "refs [identifier]",
	Short: "Fetch metadata and references for one paper without downloading sources",
	Long: `Refs collects the Semantic Scholar record for a paper and writes its
metadata.json and references.json under the paper's output directory,
skipping the source archive downloads.`,
	RunE: runRefs,
}

func init() {
	refsCmd.Flags().String("api-key", "", "Semantic Scholar API key (default: .secrets/semantic-scholar-api-key)")

	rootCmd.AddCommand(refsCmd)
}

func runRefs(cmd *cobra.Command, args []string) error {
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

	apiKey, _ := cmd.Flags().GetString("api-key")
	h := newHarvester(cfg.HarvestConfig(), scholarAPIKey(apiKey))

	rec, err := h.Scholar.Paper(cmd.Context(), id)
	if err != nil {
		return err
	}

	// A failed history lookup leaves the submission dates empty.
	history, err := h.Arxiv.VersionHistory(cmd.Context(), id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: version history unavailable: %v\n", err)
		history = nil
	}

	paperDir := filepath.Join(cfg.OutputDir, arxiv.DirName(id))
	if err := os.MkdirAll(paperDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", paperDir, err)
	}

	if err := scholar.WriteMetadata(paperDir, scholar.BuildMetadata(rec, history)); err != nil {
		return err
	}
	if err := scholar.WriteReferences(paperDir, rec.References); err != nil {
		return err
	}

	fmt.Printf("%s: wrote metadata.json and references.json (%d arXiv references of %d total)\n",
		arxiv.DirName(id), len(rec.References), rec.TotalReferences)
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/texharvest/internal/arxiv"
	"github.com/pdiddy/texharvest/internal/config"
	"github.com/pdiddy/texharvest/internal/harvest"
	"github.com/pdiddy/texharvest/internal/metrics"
	"github.com/pdiddy/texharvest/internal/monitor"
	"github.com/pdiddy/texharvest/internal/scholar"
	"github.com/pdiddy/texharvest/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Harvest the configured paper list with metrics and monitoring",
	Long: `Run processes the papers (or identifier range) from the configuration
file: every version's source archive is downloaded, TeX and BibTeX files are
kept, and metadata plus references are collected per paper.

Progress is checkpointed to the configuration file after every paper, so an
interrupted run resumes where it stopped. Individual paper failures are
recorded in the metrics and do not abort the batch.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("api-key", "", "Semantic Scholar API key (default: .secrets/semantic-scholar-api-key)")

	rootCmd.AddCommand(runCmd)
}

// newHarvester builds the pipeline clients from the harvest settings.
func newHarvester(hc types.HarvestConfig, apiKey string) *harvest.Harvester {
	client := &http.Client{Timeout: hc.Timeout}
	return &harvest.Harvester{
		Arxiv: arxiv.NewClient(client, hc),
		Scholar: &scholar.Client{
			HTTP:      client,
			APIKey:    apiKey,
			UserAgent: hc.UserAgent,
			Retries:   hc.RetryAttempts,
		},
	}
}

// runRecorder checkpoints progress and appends metrics after every paper.
type runRecorder struct {
	collector *metrics.Collector
	cfg       *config.Config
	path      string
}

func (r *runRecorder) Record(rep *types.PaperReport) {
	r.collector.Record(rep)

	if rep.Success {
		r.cfg.MarkCompleted(rep.ID)
	} else {
		r.cfg.MarkFailed(rep.ID)
	}
	r.cfg.Advance(rep.ID)
	if err := r.cfg.Save(r.path); err != nil {
		fmt.Fprintf(os.Stderr, "warning: saving progress: %v\n", err)
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	path := configPath()
	cfg, err := config.LoadOrInit(path)
	if err != nil {
		return err
	}

	ids := cfg.PaperList()
	if len(ids) == 0 {
		fmt.Println("Nothing to harvest: configure a papers list or range.")
		return nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	hc := cfg.HarvestConfig()
	h := newHarvester(hc, scholarAPIKey(apiKey))

	mon, err := monitor.New(cfg.OutputDir, cfg.MonitorInterval.Duration)
	if err != nil {
		return err
	}
	mon.Start()

	collector := &metrics.Collector{
		Path: filepath.Join(cfg.MetricsDir, metrics.PerPaperFile),
		Warn: os.Stderr,
	}
	rec := &runRecorder{collector: collector, cfg: cfg, path: path}

	opts := harvest.BatchOptions{
		Skip:     cfg.CompletedSet(),
		Recorder: rec,
	}
	result := h.HarvestBatch(cmd.Context(), ids, hc, opts, os.Stdout)

	mon.Stop()
	if err := mon.WriteSeries(cfg.MetricsDir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: writing time series: %v\n", err)
	}

	sum := mon.Summary()
	stats := metrics.Build(collector.Reports(), &sum)
	if err := metrics.WriteStatistics(filepath.Join(cfg.MetricsDir, metrics.StatisticsFile), stats); err != nil {
		return err
	}

	runPath := filepath.Join(cfg.MetricsDir, "runs", "run-"+time.Now().Format("20060102-150405")+".yaml")
	if err := harvest.WriteRunFile(runPath, ids, hc, result); err != nil {
		fmt.Fprintf(os.Stderr, "warning: writing run manifest: %v\n", err)
	}

	// Paper failures are recorded in the metrics, not surfaced as an
	// exit code; an operator resumes the run after fixing the cause.
	return nil
}

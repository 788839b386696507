// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records per-paper harvest outcomes in a CSV and
// aggregates them into run statistics.
package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdiddy/texharvest/internal/monitor"
	"github.com/pdiddy/texharvest/pkg/types"
)

// File names written under the metrics directory.
const (
	PerPaperFile   = "per_paper.csv"
	StatisticsFile = "statistics.json"
)

var csvHeader = []string{
	"paper_id", "success", "process_time_seconds", "size_before_bytes",
	"size_after_bytes", "num_references", "num_versions", "timestamp",
	"reference_fetch_success",
}

// AppendReport appends one report row to the CSV at path, writing the
// header first when the file is new or empty.
func AppendReport(path string, r *types.PaperReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("checking %s: %w", path, err)
	}

	rows := [][]string{reportRow(r)}
	if info.Size() == 0 {
		rows = append([][]string{csvHeader}, rows...)
	}

	writeErr := csv.NewWriter(f).WriteAll(rows)
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", path, closeErr)
	}
	return nil
}

func reportRow(r *types.PaperReport) []string {
	return []string{
		r.ID,
		strconv.FormatBool(r.Success),
		strconv.FormatFloat(r.Elapsed.Seconds(), 'f', 3, 64),
		strconv.FormatInt(r.SizeBefore, 10),
		strconv.FormatInt(r.SizeAfter, 10),
		strconv.Itoa(r.NumReferences),
		strconv.Itoa(r.NumVersions),
		r.Timestamp.UTC().Format(time.RFC3339),
		strconv.FormatBool(r.RefFetchOK),
	}
}

// Collector accumulates reports during a batch and appends each one to
// the per-paper CSV as it arrives, so an interrupted run keeps the rows
// already harvested. Append failures go to Warn and never stop a batch.
type Collector struct {
	Path string
	Warn io.Writer

	reports []*types.PaperReport
}

// Record implements the batch recorder hook.
func (c *Collector) Record(r *types.PaperReport) {
	c.reports = append(c.reports, r)
	if err := AppendReport(c.Path, r); err != nil && c.Warn != nil {
		fmt.Fprintf(c.Warn, "warning: recording metrics for %s: %v\n", r.ID, err)
	}
}

// Reports returns the reports collected so far.
func (c *Collector) Reports() []*types.PaperReport {
	return c.reports
}

// Statistics aggregates a finished run. Size averages cover successful
// papers with nonzero sizes only; rates are fractions of all papers.
type Statistics struct {
	TotalPapers            int       `json:"total_papers"`
	Succeeded              int       `json:"succeeded"`
	Failed                 int       `json:"failed"`
	SuccessRate            float64   `json:"success_rate"`
	TotalProcessSeconds    float64   `json:"total_process_time_seconds"`
	AverageProcessSeconds  float64   `json:"average_process_time_seconds"`
	AverageSizeBeforeBytes float64   `json:"average_size_before_bytes"`
	AverageSizeAfterBytes  float64   `json:"average_size_after_bytes"`
	TotalReferences        int       `json:"total_references"`
	AverageReferences      float64   `json:"average_references"`
	ReferenceFetchRate     float64   `json:"reference_fetch_success_rate"`
	PeakRAMMB              float64   `json:"peak_ram_mb"`
	AverageRAMMB           float64   `json:"average_ram_mb"`
	PeakDiskMB             float64   `json:"peak_disk_mb"`
	AverageDiskMB          float64   `json:"average_disk_mb"`
	GeneratedAt            time.Time `json:"generated_at"`
}

// Build folds the reports, and the monitor summary when present, into
// run statistics.
func Build(reports []*types.PaperReport, mon *monitor.Summary) Statistics {
	stats := Statistics{
		TotalPapers: len(reports),
		GeneratedAt: time.Now(),
	}

	var (
		processSum    float64
		sizeBeforeSum int64
		sizeAfterSum  int64
		sized         int
		refFetched    int
	)
	for _, r := range reports {
		processSum += r.Elapsed.Seconds()
		stats.TotalReferences += r.NumReferences
		if r.Success {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
		if r.Success && r.SizeBefore > 0 {
			sizeBeforeSum += r.SizeBefore
			sizeAfterSum += r.SizeAfter
			sized++
		}
		if r.RefFetchOK {
			refFetched++
		}
	}

	stats.TotalProcessSeconds = processSum
	if len(reports) > 0 {
		n := float64(len(reports))
		stats.SuccessRate = float64(stats.Succeeded) / n
		stats.AverageProcessSeconds = processSum / n
		stats.AverageReferences = float64(stats.TotalReferences) / n
		stats.ReferenceFetchRate = float64(refFetched) / n
	}
	if sized > 0 {
		stats.AverageSizeBeforeBytes = float64(sizeBeforeSum) / float64(sized)
		stats.AverageSizeAfterBytes = float64(sizeAfterSum) / float64(sized)
	}
	if mon != nil {
		stats.PeakRAMMB = mon.PeakRAMMB
		stats.AverageRAMMB = mon.AverageRAMMB
		stats.PeakDiskMB = mon.PeakDiskMB
		stats.AverageDiskMB = mon.AverageDiskMB
	}
	return stats
}

// WriteStatistics saves the statistics document as indented JSON.
func WriteStatistics(path string, stats Statistics) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling statistics: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

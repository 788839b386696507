// Package harvest downloads arXiv source archives version by version,
// keeps the markup and bibliography files, and collects metadata and
// reference documents for each paper.
package harvest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/texharvest/internal/arxiv"
	"github.com/pdiddy/texharvest/internal/scholar"
	"github.com/pdiddy/texharvest/pkg/types"
)

// Harvester runs the per-paper pipeline against arxiv.org and the
// Semantic Scholar API.
type Harvester struct {
	Arxiv   *arxiv.Client
	Scholar *scholar.Client
}

// BatchResult holds the outcome of a batch harvest run.
type BatchResult struct {
	Harvested int
	Skipped   int
	Failed    int
	Reports   []*types.PaperReport
}

// Total returns the total number of identifiers processed.
func (r BatchResult) Total() int {
	return r.Harvested + r.Skipped + r.Failed
}

// HasFailures reports whether any papers failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Recorder receives each paper report as the batch progresses. The run
// command uses this to append metrics rows and checkpoint progress after
// every paper.
type Recorder interface {
	Record(*types.PaperReport)
}

// BatchOptions adjusts a batch run. The zero value harvests every
// identifier with no recording.
type BatchOptions struct {
	// Skip holds dashed identifiers already harvested in a previous run.
	Skip map[string]bool

	// Recorder receives each report; nil disables recording.
	Recorder Recorder
}

// HarvestPaper downloads every version of one paper and writes its
// metadata and reference documents. The returned report is non-nil even
// when err is set, so callers can record the failure.
//
// A paper succeeds when at least one version downloads and extracts;
// individual version failures and metadata fetch failures are reported
// on w and do not fail the paper.
func (h *Harvester) HarvestPaper(ctx context.Context, rawID string, cfg types.HarvestConfig, w io.Writer) (*types.PaperReport, error) {
	start := time.Now()

	id, _, err := arxiv.Parse(rawID)
	if err != nil {
		report := &types.PaperReport{ID: rawID, Timestamp: start}
		report.Elapsed = time.Since(start)
		return report, err
	}

	report := &types.PaperReport{ID: arxiv.DirName(id), Timestamp: start}
	paperDir := filepath.Join(cfg.OutputDir, arxiv.DirName(id))
	if err := os.MkdirAll(paperDir, 0o755); err != nil {
		report.Elapsed = time.Since(start)
		return report, fmt.Errorf("creating %s: %w", paperDir, err)
	}

	history, err := h.Arxiv.VersionHistory(ctx, id)
	if err != nil {
		// Unknown history is not fatal: assume a single version.
		fmt.Fprintf(w, "  warning: version history unavailable for %s: %v\n", id, err)
		history = []arxiv.Version{{Number: 1}}
	}
	report.NumVersions = len(history)

	fmt.Fprintf(w, "harvesting: %s (%d version(s))\n", id, len(history))

	for _, v := range history {
		res := downloadVersion(ctx, h.Arxiv, id, v.Number, paperDir, cfg, w)
		if res.OK {
			report.Success = true
			report.SizeBefore += res.SizeBefore
			report.SizeAfter += res.SizeAfter
		}
		if ctx.Err() != nil {
			report.Elapsed = time.Since(start)
			return report, ctx.Err()
		}
	}

	if cfg.FetchMetadata || cfg.FetchReferences {
		if err := h.collectDocuments(ctx, id, paperDir, history, cfg, report, w); err != nil {
			report.Success = false
			report.Elapsed = time.Since(start)
			return report, err
		}
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

// collectDocuments fetches the Semantic Scholar record and writes the
// metadata and reference documents. A failed lookup is downgraded to a
// warning; a failed write is a real error.
func (h *Harvester) collectDocuments(ctx context.Context, id, paperDir string, history []arxiv.Version, cfg types.HarvestConfig, report *types.PaperReport, w io.Writer) error {
	rec, err := h.Scholar.Paper(ctx, id)
	if err != nil {
		fmt.Fprintf(w, "  warning: metadata fetch failed for %s: %v\n", id, err)
		if cfg.FetchReferences {
			if werr := scholar.WriteReferences(paperDir, nil); werr != nil {
				return fmt.Errorf("writing references for %s: %w", id, werr)
			}
		}
		return nil
	}

	report.RefFetchOK = true
	report.NumReferences = len(rec.References)

	if cfg.FetchMetadata {
		meta := scholar.BuildMetadata(rec, history)
		if err := scholar.WriteMetadata(paperDir, meta); err != nil {
			return fmt.Errorf("writing metadata for %s: %w", id, err)
		}
	}
	if cfg.FetchReferences {
		if err := scholar.WriteReferences(paperDir, rec.References); err != nil {
			return fmt.Errorf("writing references for %s: %w", id, err)
		}
	}
	return nil
}

// HarvestBatch processes identifiers sequentially, printing per-paper
// status and folding each report into the returned summary. It continues
// after individual failures and pauses between consecutive papers; the
// pause doubles after a failed paper.
func (h *Harvester) HarvestBatch(ctx context.Context, identifiers []string, cfg types.HarvestConfig, opts BatchOptions, w io.Writer) BatchResult {
	var result BatchResult
	prevFailed := false

	for i, rawID := range identifiers {
		if i > 0 && cfg.PaperDelay > 0 {
			delay := cfg.PaperDelay
			if prevFailed {
				delay *= 2
			}
			select {
			case <-ctx.Done():
				return result
			case <-time.After(delay):
			}
		}

		if id, _, err := arxiv.Parse(rawID); err == nil && opts.Skip[arxiv.DirName(id)] {
			fmt.Fprintf(w, "skipped: %s (already harvested)\n", arxiv.DirName(id))
			result.Skipped++
			prevFailed = false
			continue
		}

		report, err := h.HarvestPaper(ctx, rawID, cfg, w)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed:  %s (%v)\n", rawID, err)
		case !report.Success:
			fmt.Fprintf(w, "failed:  %s (no version downloaded)\n", report.ID)
		}
		if report.Success {
			result.Harvested++
		} else {
			result.Failed++
		}
		prevFailed = !report.Success
		result.Reports = append(result.Reports, report)

		if opts.Recorder != nil {
			opts.Recorder.Record(report)
		}
		if ctx.Err() != nil {
			break
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d harvested, %d skipped, %d failed (total: %d)\n",
		result.Harvested, result.Skipped, result.Failed, result.Total())
	return result
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/texharvest/internal/arxiv"
	"github.com/pdiddy/texharvest/pkg/types"
)

// versionResult is the outcome of one version download. SizeBefore is
// the declared byte total of every archive member; SizeAfter counts only
// the bytes copied to the destination after extension filtering.
type versionResult struct {
	OK         bool
	SizeBefore int64
	SizeAfter  int64
}

// downloadVersion fetches one version's source archive, extracts every
// member into a scratch directory, copies the kept extensions into the
// paper's tex/ tree, and removes the scratch directory whatever happens.
// Failures are reported on w and yield a zero result; they never abort
// the paper.
func downloadVersion(ctx context.Context, ax *arxiv.Client, id string, version int, paperDir string, cfg types.HarvestConfig, w io.Writer) versionResult {
	scratch, err := os.MkdirTemp(paperDir, fmt.Sprintf(".scratch-v%d-", version))
	if err != nil {
		fmt.Fprintf(w, "  warning: v%d scratch dir: %v\n", version, err)
		return versionResult{}
	}
	defer os.RemoveAll(scratch)

	archive := filepath.Join(scratch, "eprint.gz")
	if err := ax.DownloadEPrint(ctx, id, version, archive); err != nil {
		fmt.Fprintf(w, "  warning: v%d download failed: %v\n", version, err)
		return versionResult{}
	}

	srcDir := filepath.Join(scratch, "src")
	fallback := fmt.Sprintf("%sv%d.tex", id, version)
	members, err := extractArchive(archive, srcDir, fallback)
	if err != nil {
		fmt.Fprintf(w, "  warning: v%d extraction failed: %v\n", version, err)
		return versionResult{}
	}

	var before int64
	for _, m := range members {
		before += m.size
	}

	destDir := filepath.Join(paperDir, "tex", fmt.Sprintf("%sv%d", arxiv.DirName(id), version))
	after, err := copyKept(srcDir, destDir, members, cfg.KeepExtensions)
	if err != nil {
		fmt.Fprintf(w, "  warning: v%d copy failed: %v\n", version, err)
		return versionResult{}
	}

	return versionResult{OK: true, SizeBefore: before, SizeAfter: after}
}

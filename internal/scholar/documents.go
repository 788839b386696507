// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/texharvest/internal/arxiv"
	"github.com/pdiddy/texharvest/pkg/types"
)

const (
	metadataFile   = "metadata.json"
	referencesFile = "references.json"
)

// BuildMetadata combines an API record with the arXiv version history
// into the on-disk metadata document. The submission date is the first
// version's date; later versions become revised dates.
func BuildMetadata(rec *Record, history []arxiv.Version) *types.Metadata {
	meta := &types.Metadata{
		Title:        rec.Title,
		Authors:      rec.Authors,
		Venue:        rec.Venue,
		Abstract:     rec.Abstract,
		RevisedDates: []string{},
	}
	if len(history) > 0 {
		meta.SubmissionDate = history[0].Date
		for _, v := range history[1:] {
			if v.Date != "" {
				meta.RevisedDates = append(meta.RevisedDates, v.Date)
			}
		}
	}
	return meta
}

// WriteMetadata writes metadata.json into dir, replacing any previous
// version whole.
func WriteMetadata(dir string, meta *types.Metadata) error {
	return writeJSON(filepath.Join(dir, metadataFile), meta)
}

// WriteReferences writes references.json into dir as an ordered array,
// replacing any previous version whole. A nil slice is written as [].
func WriteReferences(dir string, refs []types.Reference) error {
	if refs == nil {
		refs = []types.Reference{}
	}
	return writeJSON(filepath.Join(dir, referencesFile), refs)
}

// writeJSON writes v two-space indented with a trailing newline.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Metadata holds the bibliographic record written to metadata.json for
// each harvested paper.
type Metadata struct {
	// Title is the paper title.
	Title string `json:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors"`

	// Venue is the publication venue, or "" for unpublished preprints.
	Venue string `json:"venue"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract"`

	// SubmissionDate is the date of the first arXiv version (YYYY-MM-DD),
	// or "" when the version history could not be read.
	SubmissionDate string `json:"submission_date"`

	// RevisedDates lists the dates of the second and later versions.
	RevisedDates []string `json:"revised_dates"`
}

// Reference is one entry of the references.json array. Only references
// that carry an arXiv identifier are written to disk.
type Reference struct {
	// ArxivID is the referenced paper's arXiv identifier in dashed form
	// (e.g. "1706-03762").
	ArxivID string `json:"arxiv_id"`

	// Title is the referenced paper's title.
	Title string `json:"title"`

	// Authors lists the referenced paper's authors.
	Authors []string `json:"authors"`

	// PublicationDate is the referenced paper's publication date
	// (YYYY-MM-DD), or "" when unknown.
	PublicationDate string `json:"publication_date"`

	// PaperID is the Semantic Scholar paper identifier.
	PaperID string `json:"paper_id"`
}

// PaperReport summarizes the outcome of harvesting one paper. One report
// is produced per paper regardless of success and appended to the
// per-paper metrics CSV.
type PaperReport struct {
	// ID is the paper identifier in dashed form.
	ID string `json:"paper_id"`

	// Success is true when at least one version was downloaded and
	// extracted.
	Success bool `json:"success"`

	// Elapsed is the wall-clock time spent on the paper.
	Elapsed time.Duration `json:"process_time"`

	// SizeBefore is the declared byte total of all archive members across
	// successful versions, before extension filtering.
	SizeBefore int64 `json:"size_before_bytes"`

	// SizeAfter is the byte total of the members kept after filtering.
	SizeAfter int64 `json:"size_after_bytes"`

	// NumReferences is the number of arXiv-linked references recorded.
	NumReferences int `json:"num_references"`

	// NumVersions is the number of versions attempted.
	NumVersions int `json:"num_versions"`

	// RefFetchOK is true when the Semantic Scholar lookup succeeded.
	RefFetchOK bool `json:"reference_fetch_success"`

	// Timestamp is when processing of the paper started.
	Timestamp time.Time `json:"timestamp"`
}

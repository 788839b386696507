package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "texharvest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// HarvestConfig holds settings for the harvest stage.
type HarvestConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is the base directory for harvested papers. Each paper
	// gets a subdirectory named by its dashed identifier.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// KeepExtensions lists the file extensions copied out of source
	// archives, without leading dots (default "tex", "bib").
	KeepExtensions []string `json:"keep_extensions" yaml:"keep_extensions"`

	// PaperDelay is the pause between consecutive papers in a batch
	// (default 1s). It is doubled after a failed paper.
	PaperDelay time.Duration `json:"paper_delay" yaml:"paper_delay"`

	// RequestDelay is the minimum spacing between requests to arxiv.org,
	// covering version-history pages and e-print downloads (default 500ms).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// RetryAttempts is the number of extra attempts for a failed HTTP
	// request. Zero means a single attempt.
	RetryAttempts int `json:"retry_attempts" yaml:"retry_attempts"`

	// FetchMetadata controls whether metadata.json is written.
	FetchMetadata bool `json:"fetch_metadata" yaml:"fetch_metadata"`

	// FetchReferences controls whether references.json is written.
	FetchReferences bool `json:"fetch_references" yaml:"fetch_references"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package harvest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/texharvest/pkg/types"
)

// RunFile is the on-disk record of one batch run: which papers were
// requested, the settings in effect, and the outcome totals. Runs can be
// reloaded later to inspect or repeat a harvest.
type RunFile struct {
	Papers  []string      `yaml:"papers"`
	Config  RunFileConfig `yaml:"config"`
	Summary RunSummary    `yaml:"summary"`
}

// RunFileConfig stores the harvest settings that produced the run.
type RunFileConfig struct {
	OutputDir       string   `yaml:"output_dir"`
	KeepExtensions  []string `yaml:"keep_extensions"`
	FetchMetadata   bool     `yaml:"fetch_metadata"`
	FetchReferences bool     `yaml:"fetch_references"`
	RetryAttempts   int      `yaml:"retry_attempts"`
}

// RunSummary stores outcome totals and a timestamp.
type RunSummary struct {
	Harvested       int       `yaml:"harvested"`
	Skipped         int       `yaml:"skipped"`
	Failed          int       `yaml:"failed"`
	SizeBeforeBytes int64     `yaml:"size_before_bytes"`
	SizeAfterBytes  int64     `yaml:"size_after_bytes"`
	Timestamp       time.Time `yaml:"timestamp"`
}

// WriteRunFile saves the run record to a YAML file, creating parent
// directories as needed.
func WriteRunFile(path string, identifiers []string, cfg types.HarvestConfig, result BatchResult) error {
	rf := RunFile{
		Papers: identifiers,
		Config: RunFileConfig{
			OutputDir:       cfg.OutputDir,
			KeepExtensions:  cfg.KeepExtensions,
			FetchMetadata:   cfg.FetchMetadata,
			FetchReferences: cfg.FetchReferences,
			RetryAttempts:   cfg.RetryAttempts,
		},
		Summary: RunSummary{
			Harvested: result.Harvested,
			Skipped:   result.Skipped,
			Failed:    result.Failed,
			Timestamp: time.Now(),
		},
	}
	for _, r := range result.Reports {
		rf.Summary.SizeBeforeBytes += r.SizeBefore
		rf.Summary.SizeAfterBytes += r.SizeAfter
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling run file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRunFile loads a previously saved run record from disk.
func ReadRunFile(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var rf RunFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing run file: %w", err)
	}
	return &rf, nil
}

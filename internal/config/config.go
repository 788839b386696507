// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads, validates and checkpoints the harvester's JSON
// configuration file. The file doubles as the progress record: the range
// cursor and the completed/failed lists are rewritten after every paper
// so an interrupted run resumes where it stopped.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/texharvest/pkg/types"
)

// Defaults applied by Normalize and used for a freshly initialized file.
const (
	DefaultPath       = "texharvest.json"
	DefaultOutputDir  = "./data"
	DefaultMetricsDir = "./metrics"
	DefaultUserAgent  = "texharvest/0.1 (+https://github.com/pdiddy/texharvest)"
)

// Range enumerates a block of sequential identifiers sharing a month
// prefix, e.g. 2412.05271 through 2412.10270.
type Range struct {
	Prefix  string `json:"prefix"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Current int    `json:"current"`
}

// Progress records papers already processed, keyed by dashed identifier.
type Progress struct {
	Completed []string `json:"completed"`
	Failed    []string `json:"failed"`
}

// Config is the on-disk configuration.
type Config struct {
	// OutputDir is the root directory for harvested papers.
	OutputDir string `json:"output_dir"`

	// MetricsDir receives the per-paper CSV, statistics, time series and
	// charts.
	MetricsDir string `json:"metrics_dir"`

	// Papers lists explicit identifiers to harvest. When set, Range is
	// ignored.
	Papers []string `json:"papers,omitempty"`

	// Range enumerates identifiers from the current cursor to end.
	Range *Range `json:"range,omitempty"`

	FetchMetadata   bool `json:"fetch_metadata"`
	FetchReferences bool `json:"fetch_references"`

	// KeepExtensions lists the extensions copied out of source archives,
	// without leading dots.
	KeepExtensions []string `json:"keep_extensions"`

	// Pacing and retry settings. Durations accept Go strings ("500ms")
	// or bare seconds.
	PaperDelay    types.Duration `json:"delay_between_papers"`
	RequestDelay  types.Duration `json:"delay_between_versions"`
	HTTPTimeout   types.Duration `json:"http_timeout"`
	RetryAttempts int            `json:"retry_attempts"`

	// MonitorInterval is the resource sampling period.
	MonitorInterval types.Duration `json:"monitor_interval"`

	// Concurrency is recognized but validated to 1; papers are processed
	// strictly sequentially.
	Concurrency int `json:"concurrency"`

	// UserAgent is sent with every outbound HTTP request.
	UserAgent string `json:"user_agent"`

	Progress Progress `json:"progress"`
}

// Default returns the configuration written for a fresh installation.
func Default() *Config {
	return &Config{
		OutputDir:       DefaultOutputDir,
		MetricsDir:      DefaultMetricsDir,
		FetchMetadata:   true,
		FetchReferences: true,
		KeepExtensions:  []string{"tex", "bib"},
		PaperDelay:      types.Duration{Duration: time.Second},
		RequestDelay:    types.Duration{Duration: 500 * time.Millisecond},
		HTTPTimeout:     types.Duration{Duration: time.Minute},
		MonitorInterval: types.Duration{Duration: time.Second},
		Concurrency:     1,
		UserAgent:       DefaultUserAgent,
		Progress:        Progress{Completed: []string{}, Failed: []string{}},
	}
}

// Load reads and validates the configuration at path. Unset keys take
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// LoadOrInit loads the configuration at path, writing and returning the
// defaults when no file exists yet.
func LoadOrInit(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	cfg = Default()
	if err := cfg.Save(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Normalize fills empty fields with defaults and clamps out-of-range
// values.
func (c *Config) Normalize() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.MetricsDir == "" {
		c.MetricsDir = DefaultMetricsDir
	}
	if len(c.KeepExtensions) == 0 {
		c.KeepExtensions = []string{"tex", "bib"}
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.HTTPTimeout.Duration <= 0 {
		c.HTTPTimeout = types.Duration{Duration: time.Minute}
	}
	if c.MonitorInterval.Duration <= 0 {
		c.MonitorInterval = types.Duration{Duration: time.Second}
	}
	if c.PaperDelay.Duration < 0 {
		c.PaperDelay = types.Duration{}
	}
	if c.RequestDelay.Duration < 0 {
		c.RequestDelay = types.Duration{}
	}
	if c.RetryAttempts < 0 {
		c.RetryAttempts = 0
	}
	if c.Concurrency != 1 {
		c.Concurrency = 1
	}
	if c.Range != nil && c.Range.Current < c.Range.Start {
		c.Range.Current = c.Range.Start
	}
}

// PaperList returns the identifiers this run should process: the
// explicit papers list when present, otherwise the range enumeration
// from its current cursor.
func (c *Config) PaperList() []string {
	if len(c.Papers) > 0 {
		return c.Papers
	}
	if c.Range == nil || c.Range.Prefix == "" {
		return nil
	}
	var ids []string
	for i := c.Range.Current; i <= c.Range.End; i++ {
		ids = append(ids, fmt.Sprintf("%s.%05d", c.Range.Prefix, i))
	}
	return ids
}

// MarkCompleted records a finished paper by its dashed identifier.
func (c *Config) MarkCompleted(id string) {
	if !slices.Contains(c.Progress.Completed, id) {
		c.Progress.Completed = append(c.Progress.Completed, id)
	}
}

// MarkFailed records a failed paper by its dashed identifier.
func (c *Config) MarkFailed(id string) {
	if !slices.Contains(c.Progress.Failed, id) {
		c.Progress.Failed = append(c.Progress.Failed, id)
	}
}

// CompletedSet returns the completed identifiers as a lookup set.
func (c *Config) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(c.Progress.Completed))
	for _, id := range c.Progress.Completed {
		set[id] = true
	}
	return set
}

// Advance moves the range cursor to the given identifier's counter when
// the identifier belongs to the configured range. Accepts dotted or
// dashed form.
func (c *Config) Advance(id string) {
	if c.Range == nil || c.Range.Prefix == "" {
		return
	}
	dotted := strings.Replace(id, "-", ".", 1)
	rest, ok := strings.CutPrefix(dotted, c.Range.Prefix+".")
	if !ok {
		return
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return
	}
	if n > c.Range.Current {
		c.Range.Current = n
	}
}

// HarvestConfig maps the file configuration onto the in-memory harvest
// settings.
func (c *Config) HarvestConfig() types.HarvestConfig {
	return types.HarvestConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   c.HTTPTimeout.Duration,
			UserAgent: c.UserAgent,
		},
		OutputDir:       c.OutputDir,
		KeepExtensions:  c.KeepExtensions,
		PaperDelay:      c.PaperDelay.Duration,
		RequestDelay:    c.RequestDelay.Duration,
		RetryAttempts:   c.RetryAttempts,
		FetchMetadata:   c.FetchMetadata,
		FetchReferences: c.FetchReferences,
	}
}

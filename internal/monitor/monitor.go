// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package monitor samples process memory and output-directory disk usage
// in the background while a harvest runs, and persists the time series
// for later reporting.
package monitor

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// File names written by WriteSeries under the metrics directory.
const (
	SeriesJSONFile = "timeseries.json"
	SeriesCSVFile  = "timeseries.csv"
)

const bytesPerMB = 1024 * 1024

// Sample is one point of the resource time series.
type Sample struct {
	Timestamp      time.Time `json:"timestamp"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	RAMMB          float64   `json:"ram_mb"`
	DiskMB         float64   `json:"disk_mb"`
}

// Summary aggregates a finished sampling session.
type Summary struct {
	PeakRAMMB       float64 `json:"peak_ram_mb"`
	AverageRAMMB    float64 `json:"average_ram_mb"`
	PeakDiskMB      float64 `json:"peak_disk_mb"`
	AverageDiskMB   float64 `json:"average_disk_mb"`
	FinalDiskMB     float64 `json:"final_disk_mb"`
	DurationSeconds float64 `json:"duration_seconds"`
	SampleCount     int     `json:"sample_count"`
}

// Monitor periodically records the process resident set size and the
// recursive byte total of a watched directory. Samples accumulate under
// a mutex; after Stop returns the series is final.
type Monitor struct {
	watchDir string
	interval time.Duration
	proc     *process.Process
	start    time.Time

	mu      sync.Mutex
	samples []Sample

	quit chan struct{}
	wg   sync.WaitGroup
}

// New creates a monitor watching dir. The interval defaults to one
// second when zero or negative.
func New(dir string, interval time.Duration) (*Monitor, error) {
	if interval <= 0 {
		interval = time.Second
	}
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("opening process handle: %w", err)
	}
	return &Monitor{
		watchDir: dir,
		interval: interval,
		proc:     proc,
		quit:     make(chan struct{}),
	}, nil
}

// Start takes an immediate first sample and begins sampling in the
// background.
func (m *Monitor) Start() {
	m.start = time.Now()
	m.sampleOnce()

	m.wg.Add(1)
	go m.loop()
}

func (m *Monitor) loop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.quit:
			return
		case <-ticker.C:
			m.sampleOnce()
		}
	}
}

// Stop ends background sampling, waits for the sampler goroutine, and
// records one final sample so the series reflects the finished run.
func (m *Monitor) Stop() {
	close(m.quit)
	m.wg.Wait()
	m.sampleOnce()
}

func (m *Monitor) sampleOnce() {
	now := time.Now()
	s := Sample{
		Timestamp:      now,
		ElapsedSeconds: now.Sub(m.start).Seconds(),
	}
	if mi, err := m.proc.MemoryInfo(); err == nil {
		s.RAMMB = float64(mi.RSS) / bytesPerMB
	}
	if size, err := dirSize(m.watchDir); err == nil {
		s.DiskMB = float64(size) / bytesPerMB
	}

	m.mu.Lock()
	m.samples = append(m.samples, s)
	m.mu.Unlock()
}

// dirSize sums the sizes of regular files under root. Files and
// directories vanishing mid-walk are skipped; harvest scratch
// directories come and go while the monitor runs.
func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}

// Samples returns a copy of the series collected so far.
func (m *Monitor) Samples() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Sample, len(m.samples))
	copy(out, m.samples)
	return out
}

// Summary computes peaks, averages and totals over the collected series.
func (m *Monitor) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Summary{SampleCount: len(m.samples)}
	if len(m.samples) == 0 {
		return s
	}

	var ramSum, diskSum float64
	for _, p := range m.samples {
		ramSum += p.RAMMB
		diskSum += p.DiskMB
		if p.RAMMB > s.PeakRAMMB {
			s.PeakRAMMB = p.RAMMB
		}
		if p.DiskMB > s.PeakDiskMB {
			s.PeakDiskMB = p.DiskMB
		}
	}
	n := float64(len(m.samples))
	s.AverageRAMMB = ramSum / n
	s.AverageDiskMB = diskSum / n

	last := m.samples[len(m.samples)-1]
	s.FinalDiskMB = last.DiskMB
	s.DurationSeconds = last.ElapsedSeconds
	return s
}

// seriesDocument is the persisted JSON form of a sampling session.
type seriesDocument struct {
	Metadata seriesMetadata `json:"metadata"`
	Summary  Summary        `json:"summary"`
	Samples  []Sample       `json:"samples"`
}

type seriesMetadata struct {
	WatchDir        string    `json:"watch_dir"`
	IntervalSeconds float64   `json:"interval_seconds"`
	StartedAt       time.Time `json:"started_at"`
}

// WriteSeries persists the collected series under dir: a JSON document
// with samples, summary and session metadata, and a CSV suitable for
// plotting.
func (m *Monitor) WriteSeries(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	doc := seriesDocument{
		Metadata: seriesMetadata{
			WatchDir:        m.watchDir,
			IntervalSeconds: m.interval.Seconds(),
			StartedAt:       m.start,
		},
		Summary: m.Summary(),
		Samples: m.Samples(),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling time series: %w", err)
	}
	jsonPath := filepath.Join(dir, SeriesJSONFile)
	if err := os.WriteFile(jsonPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", jsonPath, err)
	}

	return writeSeriesCSV(filepath.Join(dir, SeriesCSVFile), doc.Samples)
}

func writeSeriesCSV(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	rows := [][]string{{"elapsed_seconds", "ram_mb", "disk_mb"}}
	for _, s := range samples {
		rows = append(rows, []string{
			strconv.FormatFloat(s.ElapsedSeconds, 'f', 3, 64),
			strconv.FormatFloat(s.RAMMB, 'f', 3, 64),
			strconv.FormatFloat(s.DiskMB, 'f', 3, 64),
		})
	}
	writeErr := cw.WriteAll(rows)
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", path, closeErr)
	}
	return nil
}

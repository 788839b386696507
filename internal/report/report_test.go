// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/texharvest/internal/monitor"
)

const sampleCSV = `elapsed_seconds,ram_mb,disk_mb
0.000,42.500,0.100
1.000,48.250,10.400
2.000,47.000,25.900
`

func writeSampleCSV(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, monitor.SeriesCSVFile), []byte(content), 0o644); err != nil {
		t.Fatalf("writing sample CSV: %v", err)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	writeSampleCSV(t, dir, sampleCSV)

	if err := Render(dir); err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, name := range []string{RAMChartFile, DiskChartFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("expected chart %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Errorf("chart %s is empty", name)
		}
	}
}

func TestRenderMissingSeries(t *testing.T) {
	if err := Render(t.TempDir()); err == nil {
		t.Fatal("expected an error when the time series is absent")
	}
}

func TestRenderNoSamples(t *testing.T) {
	dir := t.TempDir()
	writeSampleCSV(t, dir, "elapsed_seconds,ram_mb,disk_mb\n")

	if err := Render(dir); err == nil {
		t.Fatal("expected an error for a header-only series")
	}
}

func TestReadSeriesSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	writeSampleCSV(t, dir, "elapsed_seconds,ram_mb,disk_mb\n0.000,42.5,1.0\nnot,a,number\n2.000,43.5,2.0\n")

	s, err := readSeries(filepath.Join(dir, monitor.SeriesCSVFile))
	if err != nil {
		t.Fatalf("readSeries: %v", err)
	}
	if len(s.elapsed) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(s.elapsed))
	}
	if s.ram[1] != 43.5 {
		t.Errorf("ram[1] = %v, want 43.5", s.ram[1])
	}
}

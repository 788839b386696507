// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders RAM and disk usage charts from the time-series
// CSV a monitored harvest run leaves behind.
package report

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/pdiddy/texharvest/internal/monitor"
)

// Chart file names written under the metrics directory.
const (
	RAMChartFile  = "ram_usage.png"
	DiskChartFile = "disk_usage.png"
)

var lineColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// series holds the plotting columns parsed from the time-series CSV.
type series struct {
	elapsed []float64
	ram     []float64
	disk    []float64
}

func readSeries(path string) (*series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening time series: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	s := &series{}
	for i, row := range rows {
		if i == 0 || len(row) < 3 {
			continue
		}
		elapsed, errE := strconv.ParseFloat(row[0], 64)
		ram, errR := strconv.ParseFloat(row[1], 64)
		disk, errD := strconv.ParseFloat(row[2], 64)
		if errE != nil || errR != nil || errD != nil {
			continue
		}
		s.elapsed = append(s.elapsed, elapsed)
		s.ram = append(s.ram, ram)
		s.disk = append(s.disk, disk)
	}
	if len(s.elapsed) == 0 {
		return nil, fmt.Errorf("%s has no samples to plot", path)
	}
	return s, nil
}

// Render reads the time-series CSV under metricsDir and writes the RAM
// and disk charts next to it.
func Render(metricsDir string) error {
	s, err := readSeries(filepath.Join(metricsDir, monitor.SeriesCSVFile))
	if err != nil {
		return err
	}

	if err := renderChart(filepath.Join(metricsDir, RAMChartFile), "RAM Usage", "RAM (MB)", s.elapsed, s.ram); err != nil {
		return err
	}
	return renderChart(filepath.Join(metricsDir, DiskChartFile), "Disk Usage", "Disk (MB)", s.elapsed, s.disk)
}

func renderChart(path, title, yLabel string, xs, ys []float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Elapsed (s)"
	p.Y.Label.Text = yLabel

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("building line for %s: %w", path, err)
	}
	line.Color = lineColor
	p.Add(plotter.NewGrid(), line)

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Run builds the binary and harvests the configured paper list.
func Run() error {
	mg.Deps(Build)
	cmd := exec.Command(filepath.Join(binDir, binName), "run")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Report builds the binary and renders resource usage charts from the
// latest run's time series.
func Report() error {
	mg.Deps(Build)
	cmd := exec.Command(filepath.Join(binDir, binName), "report")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

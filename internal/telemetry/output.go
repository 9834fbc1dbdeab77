package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/varkess/ecosphere/internal/config"
)

// OutputManager handles structured run output with CSV logging. A nil
// manager is valid and discards everything, so callers never need to
// guard the disabled case.
type OutputManager struct {
	dir       string
	statsFile *os.File

	headerWritten bool
}

// NewOutputManager creates the output directory and opens the stats
// file. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "years.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating years.csv: %w", err)
	}

	return &OutputManager{dir: dir, statsFile: f}, nil
}

// WriteConfig saves the active parameter set as YAML alongside the CSV.
func (om *OutputManager) WriteConfig(p *config.Params) error {
	if om == nil {
		return nil
	}
	return p.WriteYAML(filepath.Join(om.dir, "params.yaml"))
}

// WriteYear appends one year's stats record. The header goes out with
// the first record only.
func (om *OutputManager) WriteYear(stats YearStats) error {
	if om == nil {
		return nil
	}

	records := []YearStats{stats}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.statsFile); err != nil {
			return fmt.Errorf("writing year stats: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.statsFile); err != nil {
		return fmt.Errorf("writing year stats: %w", err)
	}
	return nil
}

// Close flushes and closes the output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return om.statsFile.Close()
}

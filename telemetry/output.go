package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/rpsarena/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir        string
	kinds      []string
	countsFile *os.File
	gamesFile  *os.File
	perfFile   *os.File

	// Track if headers have been written
	countsHeaderWritten bool
	gamesHeaderWritten  bool
	perfHeaderWritten   bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string, kinds []string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir, kinds: kinds}

	files := []struct {
		name string
		dst  **os.File
	}{
		{"counts.csv", &om.countsFile},
		{"games.csv", &om.gamesFile},
		{"perf.csv", &om.perfFile},
	}
	for _, f := range files {
		h, err := os.Create(filepath.Join(dir, f.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", f.name, err)
		}
		*f.dst = h
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// writeRecords marshals records to f, with headers only on the first call.
func writeRecords(f *os.File, headerWritten *bool, records any) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// WriteCounts writes one row per kind to counts.csv.
func (om *OutputManager) WriteCounts(s CountSnapshot) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.countsFile, &om.countsHeaderWritten, s.Rows(om.kinds)); err != nil {
		return fmt.Errorf("writing counts: %w", err)
	}
	return nil
}

// WriteSummary writes a game record to games.csv.
func (om *OutputManager) WriteSummary(s GameSummary) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.gamesFile, &om.gamesHeaderWritten, []GameSummary{s}); err != nil {
		return fmt.Errorf("writing game summary: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.perfFile, &om.perfHeaderWritten, []PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.countsFile, om.gamesFile, om.perfFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

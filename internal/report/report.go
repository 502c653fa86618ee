// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report aggregates per-file results into a console summary, a
// CSV report, and machine-readable exports.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vdxconvert/pkg/types"
)

// columns is the fixed CSV column order, one row per processed file.
var columns = []string{"filename", "output", "archive", "success", "time", "error"}

// Summary holds the aggregate counts for a run. No aggregation beyond
// counting and summing is performed.
type Summary struct {
	Total        int
	Succeeded    int
	Failed       int
	TotalSeconds float64
}

// Summarize folds results into a Summary.
func Summarize(results []types.Result) Summary {
	var s Summary
	for _, r := range results {
		s.Total++
		if r.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
		s.TotalSeconds += r.Seconds
	}
	return s
}

// HasFailures reports whether any file failed.
func (s Summary) HasFailures() bool { return s.Failed > 0 }

// Print writes the end-of-run summary: totals, elapsed time, and an
// enumerated list of failed files with their reasons.
func Print(w io.Writer, results []types.Result) {
	s := Summarize(results)

	fmt.Fprintf(w, "\nTotal files processed: %d\n", s.Total)
	fmt.Fprintf(w, "Successful conversions: %d\n", s.Succeeded)
	fmt.Fprintf(w, "Failed conversions: %d\n", s.Failed)
	fmt.Fprintf(w, "Total processing time: %.2fs\n", s.TotalSeconds)

	if s.Failed == 0 {
		return
	}
	fmt.Fprintln(w, "\nFailed conversions:")
	for _, r := range results {
		if !r.Success {
			fmt.Fprintf(w, "  %s: %s\n", r.Filename, r.Err)
		}
	}
}

// stampLayout is the timestamp embedded in report filenames.
const stampLayout = "20060102_150405"

// CSVPath returns the timestamped report location under logsDir.
func CSVPath(logsDir string, now time.Time) string {
	return filepath.Join(logsDir, "conversion_report_"+now.Format(stampLayout)+".csv")
}

// Export writes the result rows to a timestamped file under logsDir in
// the named format ("yaml" or "json") and returns the path written.
func Export(results []types.Result, logsDir, format string, now time.Time) (string, error) {
	path := filepath.Join(logsDir, "conversion_report_"+now.Format(stampLayout)+"."+format)
	switch format {
	case "yaml":
		return path, WriteYAML(results, path)
	case "json":
		return path, WriteJSON(results, path)
	default:
		return "", fmt.Errorf("unsupported export format %q: use yaml or json", format)
	}
}

// WriteCSV writes the report: a fixed header row, then one row per result
// in processing order.
func WriteCSV(results []types.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.Filename,
			r.Output,
			r.Archive,
			strconv.FormatBool(r.Success),
			strconv.FormatFloat(r.Seconds, 'f', 2, 64),
			r.Err,
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("writing report row for %s: %w", r.Filename, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing report: %w", err)
	}
	return f.Close()
}

// WriteYAML exports the result rows as YAML.
func WriteYAML(results []types.Result, path string) error {
	data, err := yaml.Marshal(results)
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteJSON exports the result rows as indented JSON.
func WriteJSON(results []types.Result, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds configuration and result types shared across the
// conversion pipeline.
package types

import (
	"path/filepath"
	"time"
)

// Layout describes the working directory structure relative to a
// configurable root. All four directories are created on startup if absent.
type Layout struct {
	// Root is the base directory containing input/, output/, archive/, logs/.
	Root string `json:"root" yaml:"root"`
}

// Input returns the directory scanned for drawing files.
func (l Layout) Input() string { return filepath.Join(l.Root, "input") }

// Output returns the directory receiving converted VDX files.
func (l Layout) Output() string { return filepath.Join(l.Root, "output") }

// Archive returns the directory originals are moved to after conversion.
func (l Layout) Archive() string { return filepath.Join(l.Root, "archive") }

// Logs returns the directory for the debug log, reports, and history database.
func (l Layout) Logs() string { return filepath.Join(l.Root, "logs") }

// Dirs returns all managed directories in creation order.
func (l Layout) Dirs() []string {
	return []string{l.Input(), l.Output(), l.Archive(), l.Logs()}
}

// ConvertConfig holds settings for the conversion stage.
type ConvertConfig struct {
	// Timeout bounds each external-process invocation. Zero disables the
	// bound (a hung office process then hangs the batch).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Verbose enables attempt-level diagnostics in the debug log.
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// ReportConfig holds settings for end-of-run reporting.
type ReportConfig struct {
	// WriteCSV controls whether the timestamped CSV report is written.
	WriteCSV bool `json:"write_csv" yaml:"write_csv"`

	// Export selects an additional machine-readable report format,
	// "yaml" or "json". Empty disables the export.
	Export string `json:"export,omitempty" yaml:"export,omitempty"`
}

// HistoryConfig holds settings for the run-history database.
type HistoryConfig struct {
	// Enabled controls whether runs are recorded into the history database.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the sqlite database location (default logs/history.db).
	Path string `json:"path" yaml:"path"`
}

// Capabilities reports which conversion backends are reachable. It is
// probed once at startup and passed explicitly into the dispatcher;
// it is never mutated afterward.
type Capabilities struct {
	// Native reports whether the embedded vsdx reader is usable.
	Native bool

	// Office lists reachable office conversion tool names in preference
	// order (e.g. ["unoconv", "soffice"]). Empty means no external
	// backend is available for .vsd/.vdw inputs.
	Office []string
}

// HasOffice reports whether at least one external conversion tool is reachable.
func (c Capabilities) HasOffice() bool { return len(c.Office) > 0 }

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vdxconvert/internal/history"
	"github.com/pdiddy/vdxconvert/internal/office"
	"github.com/pdiddy/vdxconvert/internal/pipeline"
	"github.com/pdiddy/vdxconvert/internal/report"
	"github.com/pdiddy/vdxconvert/internal/vsdx"
	"github.com/pdiddy/vdxconvert/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Convert all Visio files in the input folder",
	Long: `Run scans input/ for Visio drawing files, converts each one to VDX in
output/, and moves successfully converted originals into archive/. A summary
is printed at the end and a timestamped CSV report is written to logs/
unless suppressed with --no-report; --export adds a YAML or JSON report
alongside it.

No per-file failure aborts the batch; every file is attempted and every
outcome is recorded.`,
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	layout, err := makeLayout(cmd)
	if err != nil {
		return err
	}

	cfg := convertConfig(cmd)
	repCfg := reportConfig(cmd)
	if err := validateExport(repCfg.Export); err != nil {
		return err
	}
	histCfg := historyConfig(cmd, layout)

	logFile, err := os.OpenFile(
		filepath.Join(layout.Logs(), "vdxconvert.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644,
	)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logw := io.MultiWriter(os.Stdout, logFile)

	// Backend availability is probed once and handed to the dispatcher.
	tools := office.Detect()
	proc := pipeline.New(layout, vsdx.Reader{}, tools, cfg, logw)
	for _, warning := range missingBackendWarnings(proc.Capabilities()) {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	results, runErr := proc.Run(ctx)
	if runErr != nil && ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "\nOperation cancelled by user.")
		return errInterrupted
	}
	if runErr != nil {
		return runErr
	}
	if len(results) == 0 {
		return nil
	}

	report.Print(logw, results)

	if repCfg.WriteCSV {
		path := report.CSVPath(layout.Logs(), time.Now())
		if err := report.WriteCSV(results, path); err != nil {
			return err
		}
		fmt.Fprintf(logw, "\nCSV report saved to: %s\n", path)
	}
	if repCfg.Export != "" {
		path, err := report.Export(results, layout.Logs(), repCfg.Export, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(logw, "Report exported to: %s\n", path)
	}

	if histCfg.Enabled {
		if err := recordHistory(cmd, histCfg, started, results); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record run history: %v\n", err)
		}
	}

	// Per-file failures are reported, not fatal: the batch completed.
	return nil
}

// makeLayout resolves the root directory and creates the four working
// directories. Failure here is a top-level fault.
func makeLayout(cmd *cobra.Command) (types.Layout, error) {
	root, _ := cmd.Flags().GetString("root")
	if !cmd.Flags().Changed("root") && viper.IsSet("root") {
		root = viper.GetString("root")
	}

	layout := types.Layout{Root: root}
	for _, dir := range layout.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return layout, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return layout, nil
}

// convertConfig resolves the conversion settings from flags and config.
func convertConfig(cmd *cobra.Command) types.ConvertConfig {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return types.ConvertConfig{
		Timeout: timeoutSetting(cmd),
		Verbose: verbose,
	}
}

// reportConfig resolves the reporting settings: flags first, then the
// config file for the export format.
func reportConfig(cmd *cobra.Command) types.ReportConfig {
	noReport, _ := cmd.Flags().GetBool("no-report")
	format, _ := cmd.Flags().GetString("export")
	if !cmd.Flags().Changed("export") && viper.IsSet("report.export") {
		format = viper.GetString("report.export")
	}
	return types.ReportConfig{
		WriteCSV: !noReport,
		Export:   format,
	}
}

// historyConfig resolves the history settings. The database path comes
// from the config file when set, else logs/history.db under the root.
func historyConfig(cmd *cobra.Command, layout types.Layout) types.HistoryConfig {
	noHistory, _ := cmd.Flags().GetBool("no-history")
	path := filepath.Join(layout.Logs(), "history.db")
	if viper.IsSet("history.path") {
		path = viper.GetString("history.path")
	}
	return types.HistoryConfig{
		Enabled: !noHistory,
		Path:    path,
	}
}

// timeoutSetting resolves the external-process timeout: flag first, then
// config file, then the flag default.
func timeoutSetting(cmd *cobra.Command) time.Duration {
	if !cmd.Flags().Changed("timeout") && viper.IsSet("convert.timeout") {
		return viper.GetDuration("convert.timeout")
	}
	t, _ := cmd.Flags().GetDuration("timeout")
	return t
}

// validateExport rejects unknown export formats before the batch runs.
func validateExport(format string) error {
	switch format {
	case "", "yaml", "json":
		return nil
	default:
		return fmt.Errorf("unsupported export format %q: use yaml or json", format)
	}
}

// missingBackendWarnings lists startup warnings for unavailable backend
// families. The vsdx reader is compiled in and always available, so only
// the external office chain can be missing.
func missingBackendWarnings(caps types.Capabilities) []string {
	var warnings []string
	if !caps.HasOffice() {
		warnings = append(warnings, "neither unoconv nor soffice found; .vsd and .vdw files will fail")
	}
	return warnings
}

func recordHistory(cmd *cobra.Command, cfg types.HistoryConfig, started time.Time, results []types.Result) error {
	store, err := history.Open(cfg.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(cmd.Context(), started, results)
	return err
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("verbose", "v", false, "enable verbose logging")
	cmd.Flags().Bool("no-report", false, "don't save the CSV report")
	cmd.Flags().Bool("no-history", false, "don't record the run in the history database")
	cmd.Flags().String("export", "", "also export the report as yaml or json")
	cmd.Flags().Duration("timeout", 2*time.Minute, "per-file bound on external conversions (0 disables)")
}

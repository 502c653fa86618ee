// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vdxconvert/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversion runs",
	Long: `History lists past batch runs recorded in logs/history.db, newest
first. Use --run to show the per-file results of one run.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	layout, err := makeLayout(cmd)
	if err != nil {
		return err
	}

	store, err := history.Open(historyConfig(cmd, layout).Path)
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Single-run mode: show the per-file results.
	if runID, _ := cmd.Flags().GetInt64("run"); runID > 0 {
		results, err := store.Results(cmd.Context(), runID)
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		for _, r := range results {
			status := "ok"
			if !r.Success {
				status = "failed: " + r.Err
			}
			fmt.Printf("%-30s %7.2fs  %s\n", r.Filename, r.Seconds, status)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-6s  %-20s  %6s  %9s  %6s  %8s\n",
		"Run", "Started", "Total", "Succeeded", "Failed", "Time")
	for _, r := range runs {
		fmt.Printf("%-6d  %-20s  %6d  %9d  %6d  %7.2fs\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Total, r.Succeeded, r.Failed, r.Seconds)
	}
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Int64("run", 0, "show per-file results for one run ID")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the vdxconvert CLI, a batch
// converter for Visio drawing files to the legacy VDX XML format.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// errInterrupted marks a run stopped by the user; main maps it to a
// distinct exit code.
var errInterrupted = errors.New("interrupted")

// rootCmd is the base command for the vdxconvert CLI.
var rootCmd = &cobra.Command{
	Use:   "vdxconvert",
	Short: "Batch converter for Visio files to VDX format",
	Long: `vdxconvert processes Visio drawing files (VSD, VSDX, VSDM, VDW) from the
input folder, converts them to VDX format, and saves the results in the
output folder. Original files are moved to the archive folder on success.

OOXML drawings (.vsdx, .vsdm) are converted by the embedded structural
reader; binary drawings (.vsd, .vdw) require unoconv or LibreOffice.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./vdxconvert.yaml or ~/.config/vdxconvert/config.yaml)")
	rootCmd.PersistentFlags().String("root", ".", "base directory containing input/, output/, archive/, logs/")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vdxconvert")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "vdxconvert"))
		}
	}

	viper.SetEnvPrefix("VDXCONVERT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "vdxconvert: %v\n", err)
		if errors.Is(err, errInterrupted) || errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vdxconvert/internal/office"
	"github.com/pdiddy/vdxconvert/pkg/types"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Probe and print conversion backend availability",
	Long: `Deps reports which conversion backends are reachable: the embedded
vsdx reader for OOXML drawings, and the external office tools (unoconv,
soffice) required for the binary .vsd and .vdw formats.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		caps := types.Capabilities{
			Native: true,
			Office: office.Names(office.Detect()),
		}

		fmt.Printf("vsdx reader (.vsdx, .vsdm): available\n")
		if caps.HasOffice() {
			fmt.Printf("office tools (.vsd, .vdw):  %s\n", strings.Join(caps.Office, ", "))
		} else {
			fmt.Printf("office tools (.vsd, .vdw):  none found\n")
			fmt.Println("\nInstall unoconv or LibreOffice to convert binary Visio formats.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(depsCmd)
}

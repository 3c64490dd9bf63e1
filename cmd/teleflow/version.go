package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/botwright/teleflow/core/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of teleflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("teleflow version %s (commit %s)\n", buildinfo.Version, buildinfo.Commit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

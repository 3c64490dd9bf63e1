package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "teleflow",
	Short: "Teleflow is a declarative conversation engine for chat bots",
	Long: `Teleflow dispatches inbound chat events through a compiled state chart:
each user sits in a named state, triggers are prefix patterns matched against
what the user sent, and transitions carry the callbacks that answer.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

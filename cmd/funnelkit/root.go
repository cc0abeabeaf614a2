package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "funnelkit",
	Short: "funnelkit builds and serves quiz funnels",
	Long: `funnelkit edits quiz funnels made of ordered steps and components.
It validates, renders and scores funnels from the command line, and exposes
the editor over HTTP and the Model Context Protocol.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./funnelkit.yaml when present)")
	rootCmd.PersistentFlags().String("store", "", "Store driver: memory, file or redis")
	rootCmd.PersistentFlags().String("dir", "", "Directory of the file store")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
}

package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/funnelkit"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of funnelkit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "funnelkit version %s\n", strings.TrimSpace(funnelkit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

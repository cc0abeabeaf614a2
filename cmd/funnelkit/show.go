package main

import (
	"fmt"

	"github.com/aretw0/funnelkit/internal/presentation/graph"
	"github.com/aretw0/funnelkit/internal/presentation/outline"
	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/dsl"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [funnel-id|file]",
	Short: "Print an outline of a funnel",
	Long:  `Prints the steps and components of a funnel as markdown, styled when the output is a terminal.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		doc, err := e.loadDocument(cmd.Context(), funnelArg(args, dsl.DefaultFunnelID))
		if err != nil {
			return err
		}
		return outline.Render(cmd.OutOrStdout(), doc)
	},
}

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [funnel-id|file]",
	Short: "Export the funnel flow visualization",
	Long:  `Outputs a Mermaid diagram (graph TD) of the step sequence of a funnel.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		doc, err := e.loadDocument(cmd.Context(), funnelArg(args, dsl.DefaultFunnelID))
		if err != nil {
			return err
		}

		var sel *domain.Selection
		if step, _ := cmd.Flags().GetString("highlight"); step != "" {
			if _, ok := doc.FindStep(step); !ok {
				return domain.NotFound("graph", step)
			}
			sel = &domain.Selection{ActiveStepID: step}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.Mermaid(doc, sel))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("highlight", "", "Step to highlight")
}

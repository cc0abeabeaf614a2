package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/funnelkit"
	"github.com/aretw0/funnelkit/internal/cli"
	"github.com/aretw0/funnelkit/internal/presentation/outline"
	"github.com/aretw0/funnelkit/pkg/observability"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply <script.yaml>",
	Short: "Apply a script of edit operations to a funnel",
	Long: `Runs the ops of a YAML script through the editor, in order, and saves the
funnel when every op succeeded. A funnel that does not exist yet is created
from the starter quiz.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := cli.LoadScript(args[0])
		if err != nil {
			return err
		}

		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		id, _ := cmd.Flags().GetString("funnel")
		if id == "" {
			id = script.Funnel
		}
		if id == "" {
			return errors.New("no funnel given: set 'funnel' in the script or pass --funnel")
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		sessions := cli.NewSessions(e.cfg, e.backend, e.logger, e.kinds,
			funnelkit.WithLifecycleHooks(observability.AuditHooks(e.logger)))

		ctx := cmd.Context()
		var result funnelkit.Snapshot
		err = sessions.Do(ctx, id, func(ed *funnelkit.Editor) error {
			if err := script.Apply(ed); err != nil {
				return err
			}
			result = ed.State()
			return nil
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if dryRun {
			fmt.Fprintf(out, "Dry run: %d ops applied to '%s', nothing saved.\n\n", len(script.Ops), id)
			return outline.Render(out, result.Document)
		}
		if err := sessions.Save(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(out, "Applied %d ops to '%s' ✅\n", len(script.Ops), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().String("funnel", "", "Funnel to edit (overrides the script)")
	applyCmd.Flags().Bool("dry-run", false, "Print the result without saving")
}

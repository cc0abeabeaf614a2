package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/aretw0/funnelkit/pkg/dsl"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [funnel-id]",
	Short: "Create a funnel from the starter style quiz",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		id := funnelArg(args, dsl.DefaultFunnelID)
		force, _ := cmd.Flags().GetBool("force")

		ctx := cmd.Context()
		if _, err := e.backend.Store.Load(ctx, id); err == nil && !force {
			return fmt.Errorf("funnel %q already exists (use --force to overwrite)", id)
		} else if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
			if !force {
				return err
			}
			e.logger.Warn("Overwriting unreadable funnel", "funnel", id, "err", err)
		}

		if err := e.backend.Store.Save(ctx, dsl.DefaultFunnelWithID(id)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created funnel '%s' ✅\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing funnel")
}

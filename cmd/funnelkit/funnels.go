package main

import (
	"errors"
	"fmt"

	loamAdapter "github.com/aretw0/funnelkit/pkg/adapters/loam"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored funnels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ids, err := e.backend.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing funnels: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No funnels found.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <funnel-id>...",
	Short: "Remove one or more funnels",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		var errs []error
		for _, id := range args {
			if err := e.backend.Store.Delete(cmd.Context(), id); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", id, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed funnel '%s'\n", id)
		}
		return errors.Join(errs...)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Import funnels from a directory of markdown steps",
	Long: `Reads a directory where each funnel is a folder of markdown steps with
frontmatter (kind, title, order, components) and saves every funnel it
finds into the store.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		loader, err := loamAdapter.Open(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		ids, err := loader.List(ctx)
		if err != nil {
			return err
		}
		only, _ := cmd.Flags().GetString("funnel")

		imported := 0
		for _, id := range ids {
			if only != "" && id != only {
				continue
			}
			doc, err := loader.Load(ctx, id)
			if err != nil {
				return err
			}
			if err := e.backend.Store.Save(ctx, doc); err != nil {
				return fmt.Errorf("failed to save '%s': %w", id, err)
			}
			e.logger.Info("Funnel imported", "funnel", id, "steps", len(doc.Steps))
			imported++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d funnels from %s\n", imported, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("funnel", "", "Import only this funnel")
}

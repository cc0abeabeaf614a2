package main

import (
	"fmt"

	"github.com/aretw0/funnelkit/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <funnel-id|file>",
	Short: "Check a funnel for consistency",
	Long: `Loads a funnel from the store, or from a .json/.yaml file, and reports
duplicate ids, empty funnels and component properties that do not match
their kind.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		doc, err := e.loadDocument(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if err := domain.Validate(doc); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if err := e.kinds.ValidateDocument(doc); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Funnel '%s' is valid! ✅\n", doc.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

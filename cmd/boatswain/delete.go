package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "delete RELEASE_NAME",
		Short: "Delete a release and its persisted state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.configuration()
			if err != nil {
				return err
			}

			name := args[0]
			plan, err := cfg.Delete(cmd.Context(), name)
			if err != nil {
				logError(cfg, "delete failed", err)
				return err
			}
			if plan == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "release %q not found\n", name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "release %q deleted: %d object(s) removed\n", name, len(plan.Deletes))
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVerifyCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "verify RELEASE_NAME",
		Short: "Check a release's persisted desired state against cluster reality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.configuration()
			if err != nil {
				return err
			}

			name := args[0]
			if err := cfg.Verify(cmd.Context(), name); err != nil {
				logError(cfg, "verify failed", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "release %q matches cluster state\n", name)
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every persisted release in the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.configuration()
			if err != nil {
				return err
			}

			names, err := cfg.List(cmd.Context())
			if err != nil {
				logError(cfg, "list failed", err)
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

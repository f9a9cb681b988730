package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"boatswain.sh/boatswain/internal/ingest"
	"boatswain.sh/boatswain/pkg/action"
	"boatswain.sh/boatswain/pkg/release"
)

func newDeployCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy RELEASE_NAME FILE...",
		Short: "Install or upgrade a release from one or more object files",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.configuration()
			if err != nil {
				return err
			}

			name, paths := args[0], args[1:]

			objects, err := ingest.FromPaths(paths)
			if err != nil {
				return err
			}

			builder := release.NewBuilder(name)
			for _, obj := range objects {
				if err := builder.Add(obj); err != nil {
					return fmt.Errorf("deploy: %s: %w", obj.Identifier(), err)
				}
			}

			result, err := cfg.Deploy(cmd.Context(), builder.Finish())
			if err != nil {
				logError(cfg, "deploy failed", err)
				return err
			}

			switch result.Status {
			case action.StatusUnchanged:
				fmt.Fprintf(cmd.OutOrStdout(), "release %q unchanged\n", name)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "release %q %s: %d create(s), %d upgrade(s), %d delete(s)\n",
					name, result.Status, len(result.Plan.Creates), len(result.Plan.Upgrades), len(result.Plan.Deletes))
			}
			return nil
		},
	}
	return cmd
}

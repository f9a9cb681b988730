package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"k8s.io/cli-runtime/pkg/genericclioptions"

	"boatswain.sh/boatswain/internal/logging"
	"boatswain.sh/boatswain/pkg/action"
	"boatswain.sh/boatswain/pkg/kube"
)

var globalUsage = `boatswain deploys, deletes, and verifies named bundles of declarative
API objects against a Kubernetes-style cluster as atomic units.

Concurrent operations on the same release are serialized by a cluster-side
lock; a failed deploy rolls the cluster back to its pre-plan state.
`

// settings holds the flags shared by every subcommand, populated once by
// the root command's persistent flags.
type settings struct {
	configFlags *genericclioptions.ConfigFlags
	debug       bool
}

func newSettings() *settings {
	return &settings{configFlags: genericclioptions.NewConfigFlags(true)}
}

func (s *settings) namespace() string {
	if s.configFlags.Namespace != nil && *s.configFlags.Namespace != "" {
		return *s.configFlags.Namespace
	}
	return "default"
}

func (s *settings) debugEnabled() bool { return s.debug }

// configuration builds an action.Configuration wired against a real
// cluster, resolving the dynamic client, REST mapper, and discovery client
// from the same kubeconfig/context/namespace flags every subcommand shares.
func (s *settings) configuration() (*action.Configuration, error) {
	client, err := kube.NewFromGetter(s.configFlags)
	if err != nil {
		return nil, fmt.Errorf("initializing cluster client: %w", err)
	}

	cfg := action.NewConfiguration(client, s.namespace())
	cfg.SetLogger(logging.NewHandler(s.debugEnabled))
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	s := newSettings()

	cmd := &cobra.Command{
		Use:          "boatswain",
		Short:        "Release manager for a Kubernetes-style declarative object API",
		Long:         globalUsage,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	s.configFlags.AddFlags(flags)
	flags.BoolVar(&s.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newDeployCmd(s),
		newDeleteCmd(s),
		newVerifyCmd(s),
		newListCmd(s),
	)

	return cmd
}

func logError(cfg *action.Configuration, msg string, err error) {
	cfg.Logger().Error(msg, slog.Any("error", err))
}

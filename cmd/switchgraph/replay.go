package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"switchgraph/internal/collector"
	"switchgraph/internal/domain"
)

type replayOptions struct {
	outputFlags
	dir string
}

func newReplayCmd(root *rootOptions) *cobra.Command {
	opts := &replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild the topology from captured command output",
		Long: `Run the same pipeline as collect, reading output captured earlier instead
of logging in. Captures are laid out as <dir>/<device>/<command>.txt, e.g.
captures/core/show-mac-address-table.txt. Every device directory is used.`,
		Example: `  switchgraph replay --dir captures --output topology.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dir == "" {
				return errors.New("--dir is required")
			}
			cfg, _, err := root.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.ValidateOffline(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			dialer := collector.NewReplayDialer(opts.dir)
			targets, err := dialer.Targets()
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				return fmt.Errorf("no device directories under %s", opts.dir)
			}
			// Labels from config still apply to replayed devices
			for i := range targets {
				for _, d := range cfg.Devices {
					if d.Host == targets[i].Host {
						targets[i].Label = d.Label
					}
				}
			}

			run := &pipelineRun{
				cfg:        cfg,
				dialer:     dialer,
				targets:    targets,
				source:     domain.RunSourceReplay,
				eventsPath: opts.events,
				out:        cmd.OutOrStdout(),
			}
			return run.execute(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "", "capture directory")
	opts.register(cmd)

	return cmd
}

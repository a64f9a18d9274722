package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"switchgraph/internal/ui"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration",
		Long: `Load the configuration the same way collect does and report problems.
Use --offline to skip the device and credential checks, e.g. for replay.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			cfg, path, err := root.loadConfig()
			if err != nil {
				ui.ValidationErr(w, "config", err.Error(), "check the YAML syntax")
				return err
			}
			if path == "" {
				ui.ValidationOK(w, "config", "no file found, using defaults")
			} else {
				ui.ValidationOK(w, "config", path)
			}

			check := cfg.Validate
			if offline {
				check = cfg.ValidateOffline
			}
			if err := check(); err != nil {
				ui.ValidationErr(w, "settings", err.Error(), "")
				return fmt.Errorf("configuration is invalid")
			}

			ui.ValidationOK(w, "settings", cfg.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "skip device and credential checks")

	return cmd
}

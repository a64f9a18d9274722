package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"switchgraph/internal/repository/sqlite"
	"switchgraph/internal/ui"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var (
		limit int
		path  string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.History.Path = path
			}

			// Listing must not leave an empty database behind
			if _, err := os.Stat(cfg.History.Path); errors.Is(err, fs.ErrNotExist) {
				ui.RunHistory(cmd.OutOrStdout(), nil)
				return nil
			}

			repo, err := sqlite.New(cfg.History.Path)
			if err != nil {
				return err
			}
			defer repo.Close()

			runs, err := repo.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			ui.RunHistory(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show (0 = all)")
	cmd.Flags().StringVar(&path, "db", "", "history database (default from config)")

	return cmd
}

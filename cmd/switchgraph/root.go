package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"switchgraph/internal/config"
	"switchgraph/internal/domain"
	"switchgraph/internal/logger"
)

// rootOptions are the persistent flags shared by every subcommand
type rootOptions struct {
	configPath string
	envFile    string
	debug      bool
	prettyLogs bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "switchgraph",
		Short: "Infer switch-to-switch topology from show command output",
		Long: `switchgraph logs into each switch over SSH, reads "show interfaces" and
"show mac address-table", and infers which ports are cabled together from
MAC addresses learned on both ends of a link.

The result is written as a nodes/edges document for a graph page.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default: search "+config.ConfigFileName+" and XDG paths)")
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file with SWITCHGRAPH_* credentials")
	pf.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	pf.BoolVar(&opts.prettyLogs, "pretty", false, "human-readable logs instead of JSON")

	cmd.AddCommand(
		newCollectCmd(opts),
		newReplayCmd(opts),
		newHistoryCmd(opts),
		newValidateCmd(opts),
	)
	return cmd
}

// loadConfig reads .env, the config file and the environment, then sets up
// logging from the result
func (o *rootOptions) loadConfig() (*config.Config, string, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return nil, "", fmt.Errorf("load %s: %w", o.envFile, err)
	}

	var (
		cfg  *config.Config
		path string
		err  error
	)
	if o.configPath != "" {
		cfg, path, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, path, err
	}
	cfg.ApplyEnv()

	if o.debug {
		cfg.Log.Debug = true
	}
	if err := logger.Init(logger.Config{
		Level:   cfg.Log.Level,
		Debug:   cfg.Log.Debug,
		Console: o.prettyLogs,
	}); err != nil {
		return nil, path, fmt.Errorf("init logger: %w", err)
	}

	log := logger.GetLogger()
	if path == "" {
		log.Debug().Msg("No config file found, using defaults")
	} else {
		log.Debug().Str("path", path).Msg("Loaded config")
	}
	return cfg, path, nil
}

func errorTitle(err error) string {
	switch {
	case errors.Is(err, domain.ErrAllDevicesFailed):
		return "No device could be collected"
	case domain.IsContractViolation(err):
		return "Topology could not be assembled"
	case errors.Is(err, context.Canceled):
		return "Run interrupted"
	default:
		return "switchgraph failed"
	}
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, domain.ErrAllDevicesFailed):
		return "check credentials and reachability, rerun with --debug for details"
	case errors.Is(err, context.Canceled):
		return "the previous topology document was left in place"
	case errors.Is(err, os.ErrNotExist):
		return "check the path"
	default:
		return ""
	}
}

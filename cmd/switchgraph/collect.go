package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"switchgraph/internal/collector"
	"switchgraph/internal/config"
	"switchgraph/internal/domain"
	"switchgraph/internal/logger"
	"switchgraph/internal/service"
)

// outputFlags are shared by collect and replay
type outputFlags struct {
	output              string
	format              string
	history             string
	noHistory           bool
	strategy            string
	resolvePortChannels bool
	dropConflicts       bool
	workers             int
	events              string
}

func (f *outputFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "topology document path (default "+config.DefaultOutputPath+")")
	fl.StringVar(&f.format, "format", "", "document format: json, yaml")
	fl.StringVar(&f.history, "history", "", "record the run in this sqlite database")
	fl.BoolVar(&f.noHistory, "no-history", false, "do not record the run")
	fl.StringVar(&f.strategy, "strategy", "", "link inference strategy: shared-mac, owned-mac")
	fl.BoolVar(&f.resolvePortChannels, "resolve-port-channels", false, "map Po ports to their single bundled member")
	fl.BoolVar(&f.dropConflicts, "drop-conflicting-macs", false, "ignore MACs seen on two ports of the same switch")
	fl.IntVarP(&f.workers, "workers", "w", 0, "devices collected concurrently")
	fl.StringVar(&f.events, "events", "", "append run events as JSON lines to this file")
}

// apply overrides config values with the flags that were set
func (f *outputFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("output") {
		cfg.Output.Path = f.output
	}
	if fl.Changed("format") {
		cfg.Output.Format = f.format
	}
	if fl.Changed("history") {
		cfg.History.Path = f.history
		cfg.History.Enabled = true
	}
	if f.noHistory {
		cfg.History.Enabled = false
	}
	if fl.Changed("strategy") {
		cfg.Inference.Strategy = f.strategy
	}
	if f.resolvePortChannels {
		cfg.Inference.ResolvePortChannels = true
	}
	if f.dropConflicts {
		cfg.Inference.DropConflictingMACs = true
	}
	if fl.Changed("workers") {
		cfg.Collection.Workers = f.workers
	}
}

type collectOptions struct {
	outputFlags
	hosts          []string
	username       string
	password       string
	keyFile        string
	preflight      bool
	commandTimeout time.Duration
}

func newCollectCmd(root *rootOptions) *cobra.Command {
	opts := &collectOptions{}

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect from switches over SSH and write the topology",
		Long: `Connect to every configured switch and every --host, collect the show
commands and write the inferred topology. Hosts are collected independently;
the command only fails when no host could be collected at all.`,
		Example: `  switchgraph collect --host 10.0.0.1 --host 10.0.0.2 --username admin --password secret
  switchgraph collect -c switchgraph.yaml --output /var/www/html/data.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			run := &pipelineRun{
				cfg: cfg,
				dialer: collector.NewSSHDialer(collector.SSHOptions{
					ConnectTimeout: cfg.Collection.ConnectTimeout.Duration(),
					CommandTimeout: cfg.Collection.CommandTimeout.Duration(),
				}, logger.WithComponent("ssh")),
				targets:    service.TargetsFromConfig(cfg),
				source:     domain.RunSourceLive,
				eventsPath: opts.events,
				out:        cmd.OutOrStdout(),
			}
			return run.execute(cmd.Context())
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVar(&opts.hosts, "host", nil, "switch to collect from (repeatable)")
	fl.StringVarP(&opts.username, "username", "u", "", "SSH username (env "+config.EnvUsername+")")
	fl.StringVarP(&opts.password, "password", "p", "", "SSH password (env "+config.EnvPassword+")")
	fl.StringVarP(&opts.keyFile, "key", "k", "", "SSH private key file (env "+config.EnvKeyFile+")")
	fl.BoolVar(&opts.preflight, "preflight", false, "sweep SSH ports with nmap before connecting")
	fl.DurationVar(&opts.commandTimeout, "command-timeout", 0, "per-command timeout, e.g. 45s")
	opts.register(cmd)

	return cmd
}

func (o *collectOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	o.outputFlags.apply(cmd, cfg)

	cfg.AddHosts(o.hosts...)
	if o.username != "" {
		cfg.Credentials.Username = o.username
	}
	if o.password != "" {
		cfg.Credentials.Password = o.password
	}
	if o.keyFile != "" {
		cfg.Credentials.PrivateKeyPath = o.keyFile
	}
	if o.preflight {
		cfg.Collection.Preflight = true
	}
	if o.commandTimeout > 0 {
		cfg.Collection.CommandTimeout = config.Duration(o.commandTimeout)
	}
}

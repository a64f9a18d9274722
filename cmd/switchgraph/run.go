package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"switchgraph/internal/codec"
	"switchgraph/internal/collector"
	"switchgraph/internal/config"
	"switchgraph/internal/domain"
	"switchgraph/internal/inference"
	"switchgraph/internal/logger"
	"switchgraph/internal/parser"
	"switchgraph/internal/repository/sqlite"
	"switchgraph/internal/service"
	"switchgraph/internal/store"
	"switchgraph/internal/ui"
)

// pipelineRun describes one collect or replay invocation
type pipelineRun struct {
	cfg        *config.Config
	dialer     collector.Dialer
	targets    []collector.Target
	source     domain.RunSource
	eventsPath string // events are appended here as JSON lines when set
	out        io.Writer
}

// execute wires the pipeline from config and runs it. It returns
// domain.ErrAllDevicesFailed when no device could be collected, after the
// empty document has been written.
func (r *pipelineRun) execute(ctx context.Context) error {
	cfg := r.cfg
	log := logger.GetLogger()

	format, err := codec.ForFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	strategy, err := inference.ParseStrategy(cfg.Inference.Strategy)
	if err != nil {
		return err
	}

	collOpts := collector.Options{
		Workers:  cfg.Collection.Workers,
		Commands: commandList(cfg),
		Parser:   parser.Options{ResolvePortChannels: cfg.Inference.ResolvePortChannels},
	}
	if r.source == domain.RunSourceLive && cfg.Collection.Preflight {
		collOpts.Preflight = collector.NewPreflight(nil, logger.WithComponent("preflight"))
	}
	coll := collector.New(r.dialer, collOpts, logger.WithComponent("collector"))

	engine := inference.New(inference.Options{
		Strategy:            strategy,
		DropConflictingMACs: cfg.Inference.DropConflictingMACs,
	}, log)

	pipeOpts := service.Options{Source: r.source}
	if cfg.History.Enabled {
		repo, err := sqlite.New(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer repo.Close()
		pipeOpts.History = repo
	}

	if r.eventsPath != "" {
		f, err := os.OpenFile(r.eventsPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("open event log: %w", err)
		}
		defer f.Close()

		bus := service.NewEventBus()
		ch := make(chan service.Event, len(r.targets)+2)
		bus.Subscribe(ch)
		done := make(chan struct{})
		go func() {
			defer close(done)
			enc := json.NewEncoder(f)
			for ev := range ch {
				if err := enc.Encode(ev); err != nil {
					log.Debug().Err(err).Msg("Failed to write event")
				}
			}
		}()
		defer func() {
			close(ch)
			<-done
		}()
		pipeOpts.Events = bus
	}

	out := store.NewFileStore(cfg.Output.Path, format)
	pipeline := service.NewPipeline(coll, engine, out, pipeOpts, logger.WithComponent("pipeline"))

	result, err := pipeline.Run(ctx, r.targets)
	if result != nil {
		ui.RunReport(r.out, result.Run, result.Change)
	}
	return err
}

// commandList makes sure the commands inference needs are always collected
func commandList(cfg *config.Config) []string {
	cmds := append([]string(nil), domain.RequiredCommands...)
	seen := map[string]bool{}
	for _, c := range cmds {
		seen[c] = true
	}
	extra := append([]string(nil), cfg.Collection.Commands...)
	if cfg.Inference.ResolvePortChannels {
		extra = append(extra, domain.CommandShowEtherChannel)
	}
	for _, c := range extra {
		if !seen[c] {
			seen[c] = true
			cmds = append(cmds, c)
		}
	}
	return cmds
}

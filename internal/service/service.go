package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"switchgraph/internal/assembler"
	"switchgraph/internal/collector"
	"switchgraph/internal/domain"
	"switchgraph/internal/inference"
	"switchgraph/internal/repository"
	"switchgraph/internal/store"
)

// Collector is the part of collector.Collector the pipeline needs
type Collector interface {
	Collect(ctx context.Context, targets []collector.Target) []*domain.DeviceRecord
}

// Options holds the optional collaborators of a pipeline
type Options struct {
	Source  domain.RunSource
	History repository.HistoryRepository // nil disables run history
	Events  *EventBus                    // nil disables events
}

// Pipeline ties collection, inference, assembly and output together
type Pipeline struct {
	collector Collector
	engine    *inference.Engine
	store     *store.FileStore
	opts      Options
	logger    zerolog.Logger
	now       func() time.Time
}

// Result is everything a run produced
type Result struct {
	Run       *domain.Run
	Graph     *domain.TopologyGraph
	Inference *inference.Result
	Change    store.Change
}

// NewPipeline creates a pipeline
func NewPipeline(c Collector, engine *inference.Engine, out *store.FileStore, opts Options, logger zerolog.Logger) *Pipeline {
	if opts.Source == "" {
		opts.Source = domain.RunSourceLive
	}
	return &Pipeline{
		collector: c,
		engine:    engine,
		store:     out,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one full pass over the targets. A cancelled context aborts
// the run before anything is written.
func (p *Pipeline) Run(ctx context.Context, targets []collector.Target) (*Result, error) {
	run := &domain.Run{
		ID:        uuid.NewString(),
		Source:    p.opts.Source,
		StartedAt: p.now(),
		Output:    p.store.Path(),
	}
	log := p.logger.With().Str("run", run.ID).Logger()
	log.Info().Int("devices", len(targets)).Str("source", string(run.Source)).Msg("Run started")
	p.opts.Events.Publish(Event{Type: EventRunStarted, Payload: map[string]interface{}{
		"run_id":  run.ID,
		"devices": len(targets),
	}})

	records := p.collector.Collect(ctx, targets)
	if err := ctx.Err(); err != nil {
		// The previous document stays in place when a run is interrupted
		log.Warn().Err(err).Msg("Run interrupted, topology left unchanged")
		return nil, fmt.Errorf("collection interrupted: %w", err)
	}

	var usable []*domain.DeviceRecord
	for _, rec := range records {
		report := domain.NewDeviceReport(rec)
		run.Devices = append(run.Devices, report)
		p.opts.Events.Publish(Event{Type: EventDeviceCollected, Payload: report})
		if rec.Outcome() != domain.OutcomeFailed {
			usable = append(usable, rec)
		}
	}

	inferred, err := p.engine.Infer(usable)
	if err != nil {
		return nil, fmt.Errorf("infer links: %w", err)
	}

	devices := make([]domain.Device, len(usable))
	for i, rec := range usable {
		devices[i] = rec.Device
	}
	graph, err := assembler.Assemble(devices, inferred.Links)
	if err != nil {
		return nil, fmt.Errorf("assemble topology: %w", err)
	}

	prev, loadErr := p.store.Load()
	if loadErr != nil {
		log.Warn().Err(loadErr).Msg("Could not read previous topology, change report skipped")
	}
	if err := p.store.Save(graph); err != nil {
		return nil, fmt.Errorf("write topology: %w", err)
	}

	run.Links = inferred.Links
	run.Nodes = len(graph.Nodes)
	run.Edges = len(graph.Edges)
	run.FinishedAt = p.now()

	result := &Result{Run: run, Graph: graph, Inference: inferred}
	if loadErr == nil {
		result.Change = store.Diff(prev, graph)
		p.logChange(log, result.Change)
	}

	if p.opts.History != nil {
		if err := p.opts.History.SaveRun(ctx, run); err != nil {
			log.Warn().Err(err).Msg("Failed to record run history")
		}
	}

	p.opts.Events.Publish(Event{Type: EventRunFinished, Payload: run.Summary()})
	log.Info().
		Int("nodes", run.Nodes).
		Int("edges", run.Edges).
		Int("ok", run.Count(domain.OutcomeOK)).
		Int("partial", run.Count(domain.OutcomePartial)).
		Int("failed", run.Count(domain.OutcomeFailed)).
		Str("output", run.Output).
		Dur("duration", run.FinishedAt.Sub(run.StartedAt)).
		Msg("Run finished")

	if run.AllFailed() {
		return result, domain.ErrAllDevicesFailed
	}
	return result, nil
}

func (p *Pipeline) logChange(log zerolog.Logger, c store.Change) {
	if c.Empty() {
		log.Debug().Msg("Topology unchanged")
		return
	}
	for _, e := range c.AddedEdges {
		log.Info().Str("link", edgeString(e)).Msg("Link appeared")
	}
	for _, e := range c.RemovedEdges {
		log.Info().Str("link", edgeString(e)).Msg("Link disappeared")
	}
	if len(c.AddedNodes) > 0 || len(c.RemovedNodes) > 0 {
		log.Info().Strs("added", c.AddedNodes).Strs("removed", c.RemovedNodes).Msg("Device set changed")
	}
}

func edgeString(e domain.GraphEdge) string {
	return e.From + ":" + e.FromInterface + " - " + e.To + ":" + e.ToInterface
}

// IsAllFailed reports whether err means no device could be collected
func IsAllFailed(err error) bool {
	return errors.Is(err, domain.ErrAllDevicesFailed)
}

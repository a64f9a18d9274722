package collector

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"switchgraph/internal/domain"
	"switchgraph/internal/parser"
)

// DefaultWorkers is the number of devices collected concurrently
const DefaultWorkers = 10

// Options configures a Collector
type Options struct {
	Workers  int
	Commands []string // defaults to domain.RequiredCommands
	Parser   parser.Options
	// Preflight, when set, is consulted once before any session is opened
	Preflight *Preflight
}

// Collector fetches and parses every target into a DeviceRecord
type Collector struct {
	dialer Dialer
	opts   Options
	logger zerolog.Logger
}

// New creates a collector
func New(dialer Dialer, opts Options, logger zerolog.Logger) *Collector {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if len(opts.Commands) == 0 {
		opts.Commands = domain.RequiredCommands
	}
	return &Collector{dialer: dialer, opts: opts, logger: logger}
}

// Collect returns one record per target, in target order. Failures are
// recorded on the affected record and never stop other devices; Collect
// returns only after every device is done.
func (c *Collector) Collect(ctx context.Context, targets []Target) []*domain.DeviceRecord {
	records := make([]*domain.DeviceRecord, len(targets))

	var unreachable map[string]error
	if c.opts.Preflight != nil {
		var err error
		unreachable, err = c.opts.Preflight.Check(ctx, targets)
		if err != nil {
			// Without a sweep every device still gets its SSH attempt
			c.logger.Warn().Err(err).Msg("Preflight failed, continuing without it")
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(c.opts.Workers)

	for i, target := range targets {
		g.Go(func() error {
			if err, ok := unreachable[target.DeviceID()]; ok {
				rec := domain.NewDeviceRecord(target.DeviceID())
				rec.AddError(&domain.SessionError{Device: target.DeviceID(), Err: err})
				records[i] = rec
				return nil
			}
			records[i] = c.collectDevice(ctx, target)
			return nil
		})
	}

	_ = g.Wait()

	for _, rec := range records {
		c.logRecord(rec)
	}
	return records
}

// collectDevice talks to one device and parses whatever it returned
func (c *Collector) collectDevice(ctx context.Context, target Target) *domain.DeviceRecord {
	id := target.DeviceID()
	log := c.logger.With().Str("device", id).Logger()

	session, err := c.dialer.Dial(ctx, target)
	if err != nil {
		rec := domain.NewDeviceRecord(id)
		rec.Device.Label = target.Label
		rec.AddError(&domain.SessionError{Device: id, Err: err})
		return rec
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Debug().Err(err).Msg("Session close failed")
		}
	}()

	outputs := make(map[string]string, len(c.opts.Commands))
	var errs []error
	for _, cmd := range c.opts.Commands {
		out, err := session.Run(ctx, id, cmd)
		if err != nil {
			errs = append(errs, &domain.SessionError{Device: id, Command: cmd, Err: err})
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}
			continue
		}
		outputs[cmd] = out
		log.Debug().Str("command", cmd).Int("bytes", len(out)).Msg("Command complete")
	}

	rec, err := parser.ParseDevice(id, outputs, c.opts.Parser)
	if err != nil {
		rec = domain.NewDeviceRecord(id)
		rec.AddError(err)
	}
	rec.Device.Label = target.Label
	for _, e := range errs {
		rec.AddError(e)
	}
	return rec
}

func (c *Collector) logRecord(rec *domain.DeviceRecord) {
	log := c.logger.With().Str("device", rec.ID()).Logger()

	for _, e := range rec.Errors {
		log.Warn().Err(e).Msg("Collection error")
	}
	for _, d := range rec.Diagnostics {
		log.Debug().
			Str("command", d.Command).
			Int("line", d.LineNo).
			Str("reason", d.Reason).
			Msg("Skipped output line")
	}

	log.Info().
		Str("outcome", string(rec.Outcome())).
		Int("interfaces", len(rec.Device.Interfaces)).
		Int("bindings", len(rec.Bindings)).
		Int("skipped", len(rec.Diagnostics)).
		Msg("Device collected")
}

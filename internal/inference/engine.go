package inference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"switchgraph/internal/domain"
)

// Engine infers links from a complete set of device records
type Engine struct {
	opts   Options
	logger zerolog.Logger
}

// New creates an inference engine
func New(opts Options, logger zerolog.Logger) *Engine {
	if opts.Strategy == "" {
		opts.Strategy = StrategySharedMAC
	}
	return &Engine{
		opts:   opts,
		logger: logger.With().Str("component", "inference").Logger(),
	}
}

// Infer runs the configured strategy over all records. Records are read
// only; the result does not depend on the order of records.
func (e *Engine) Infer(records []*domain.DeviceRecord) (*Result, error) {
	if err := validate(records); err != nil {
		return nil, err
	}

	var result *Result
	switch e.opts.Strategy {
	case StrategySharedMAC:
		result = e.inferSharedMAC(records)
	case StrategyOwnedMAC:
		result = e.inferOwnedMAC(records)
	default:
		return nil, fmt.Errorf("unknown inference strategy %q", e.opts.Strategy)
	}

	e.logDiagnostics(result)
	e.logger.Info().
		Str("strategy", string(e.opts.Strategy)).
		Int("devices", len(records)).
		Int("links", len(result.Links)).
		Int("diagnostics", len(result.Diagnostics)).
		Msg("Inference complete")

	return result, nil
}

// validate rejects records that break the parser's output contract
func validate(records []*domain.DeviceRecord) error {
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if r == nil {
			return fmt.Errorf("%w: record %d is nil", domain.ErrInvalidRecord, i)
		}
		id := r.ID()
		if id == "" {
			return fmt.Errorf("%w: record %d has no identity", domain.ErrInvalidRecord, i)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate device %q", domain.ErrInvalidRecord, id)
		}
		seen[id] = true

		for _, b := range r.Bindings {
			if b.Device != "" && b.Device != id {
				return fmt.Errorf("%w: device %q holds a binding for %q", domain.ErrInvalidRecord, id, b.Device)
			}
			if b.MAC == "" || b.Interface == "" {
				return fmt.Errorf("%w: device %q has an incomplete binding", domain.ErrInvalidRecord, id)
			}
		}
	}
	return nil
}

// deviceBindings reduces a device's MAC table to one interface per MAC. The
// most recently parsed binding wins; earlier conflicting ones are reported.
func (e *Engine) deviceBindings(r *domain.DeviceRecord, diags *[]Diagnostic) map[string]string {
	byMAC := make(map[string]string, len(r.Bindings))
	conflicted := make(map[string]bool)

	for _, b := range r.Bindings {
		prev, ok := byMAC[b.MAC]
		if ok && prev != b.Interface {
			conflicted[b.MAC] = true
			*diags = append(*diags, Diagnostic{
				Kind: KindSameDeviceConflict,
				MAC:  b.MAC,
				Sightings: []domain.Endpoint{
					{Device: r.ID(), Interface: prev},
					{Device: r.ID(), Interface: b.Interface},
				},
				Message: fmt.Sprintf("%s seen on %s and %s of %s; keeping %s",
					b.MAC, prev, b.Interface, r.ID(), b.Interface),
			})
		}
		byMAC[b.MAC] = b.Interface
	}

	if e.opts.DropConflictingMACs {
		for mac := range conflicted {
			delete(byMAC, mac)
		}
	}
	return byMAC
}

// inferSharedMAC emits a link for every MAC learned on exactly two devices
func (e *Engine) inferSharedMAC(records []*domain.DeviceRecord) *Result {
	result := &Result{}
	index := make(map[string][]domain.Endpoint)

	for _, r := range records {
		for mac, iface := range e.deviceBindings(r, &result.Diagnostics) {
			index[mac] = append(index[mac], domain.Endpoint{Device: r.ID(), Interface: iface})
		}
	}

	links := newLinkSet()
	for _, mac := range sortedKeys(index) {
		sightings := index[mac]
		switch {
		case len(sightings) == 1:
			// end host behind a single device
		case len(sightings) == 2:
			links.add(domain.NewLink(sightings[0], sightings[1]), mac)
		default:
			sortEndpoints(sightings)
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind:      KindAmbiguousSharedSegment,
				MAC:       mac,
				Sightings: sightings,
				Message:   fmt.Sprintf("%s learned on %d devices; not a point-to-point link", mac, len(sightings)),
			})
		}
	}

	result.Links = links.sorted()
	sortDiagnostics(result.Diagnostics)
	return result
}

func (e *Engine) logDiagnostics(result *Result) {
	for _, d := range result.Diagnostics {
		var ev *zerolog.Event
		switch d.Kind {
		case KindAmbiguousSharedSegment, KindOneSided:
			ev = e.logger.Debug()
		default:
			ev = e.logger.Warn()
		}
		ev.Str("kind", string(d.Kind)).Str("mac", d.MAC).Msg(d.Message)
	}

	if n := result.Count(KindAmbiguousSharedSegment); n > 0 {
		e.logger.Info().Int("macs", n).Msg("Dropped MACs learned on more than two devices")
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortEndpoints(eps []domain.Endpoint) {
	sort.Slice(eps, func(i, j int) bool {
		if eps[i].Device != eps[j].Device {
			return eps[i].Device < eps[j].Device
		}
		return eps[i].Interface < eps[j].Interface
	})
}

func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Kind != diags[j].Kind {
			return diags[i].Kind < diags[j].Kind
		}
		if diags[i].MAC != diags[j].MAC {
			return diags[i].MAC < diags[j].MAC
		}
		if c := compareSightings(diags[i].Sightings, diags[j].Sightings); c != 0 {
			return c < 0
		}
		return diags[i].Message < diags[j].Message
	})
}

// compareSightings orders endpoint lists by device, then interface, element
// by element; a shorter prefix sorts first
func compareSightings(a, b []domain.Endpoint) int {
	for k := 0; k < len(a) && k < len(b); k++ {
		if a[k].Device != b[k].Device {
			return strings.Compare(a[k].Device, b[k].Device)
		}
		if a[k].Interface != b[k].Interface {
			return strings.Compare(a[k].Interface, b[k].Interface)
		}
	}
	return len(a) - len(b)
}

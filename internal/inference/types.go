package inference

import (
	"fmt"
	"strings"

	"switchgraph/internal/domain"
)

// Strategy selects the correlation heuristic
type Strategy string

const (
	// StrategySharedMAC links two devices that both learned the same MAC,
	// provided no third device learned it
	StrategySharedMAC Strategy = "shared-mac"
	// StrategyOwnedMAC links two devices when each learned one of the other's
	// own interface MACs
	StrategyOwnedMAC Strategy = "owned-mac"
)

// ParseStrategy converts a config string to a Strategy, defaulting to shared-mac
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategySharedMAC:
		return StrategySharedMAC, nil
	case StrategyOwnedMAC:
		return StrategyOwnedMAC, nil
	default:
		return "", fmt.Errorf("unknown inference strategy %q", s)
	}
}

// Options controls the engine
type Options struct {
	Strategy Strategy
	// DropConflictingMACs discards a MAC entirely when one device attributes
	// it to more than one interface, instead of keeping the last binding
	DropConflictingMACs bool
}

// DiagnosticKind classifies an inference-quality note
type DiagnosticKind string

const (
	// KindSameDeviceConflict: one device attributed a MAC to two interfaces
	KindSameDeviceConflict DiagnosticKind = "same-device-conflict"
	// KindAmbiguousSharedSegment: a MAC was learned on more than two devices
	KindAmbiguousSharedSegment DiagnosticKind = "ambiguous-shared-segment"
	// KindDuplicateOwner: two devices claim the same interface MAC
	KindDuplicateOwner DiagnosticKind = "duplicate-owner"
	// KindOneSided: only one side of a device pair saw the other
	KindOneSided DiagnosticKind = "one-sided"
)

// Diagnostic describes evidence that was discarded rather than asserted
type Diagnostic struct {
	Kind      DiagnosticKind    `json:"kind"`
	MAC       string            `json:"mac,omitempty"`
	Sightings []domain.Endpoint `json:"sightings,omitempty"`
	Message   string            `json:"message"`
}

// Result is the deduplicated link set plus everything that was left out
type Result struct {
	Links       []domain.Link
	Diagnostics []Diagnostic
}

// Count returns the number of diagnostics of a kind
func (r *Result) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

package inference

import (
	"fmt"
	"sort"

	"switchgraph/internal/domain"
)

type devicePair struct {
	local, remote string
}

// partialLink is one direction of a device pair: the local port on which
// MACs owned by the remote device were learned
type partialLink struct {
	port string
	macs map[string]struct{}
}

// inferOwnedMAC links A and B when A learned one of B's own interface MACs
// and B learned one of A's. Each side's port is the one on which most of the
// remote device's MACs were learned, ties going to the lowest port name.
func (e *Engine) inferOwnedMAC(records []*domain.DeviceRecord) *Result {
	result := &Result{}

	owners := make(map[string][]string)
	for _, r := range records {
		for mac := range r.AllOwnedMACs() {
			owners[mac] = append(owners[mac], r.ID())
		}
	}
	for _, mac := range sortedKeys(owners) {
		if devs := owners[mac]; len(devs) > 1 {
			eps := make([]domain.Endpoint, len(devs))
			for i, d := range devs {
				eps[i] = domain.Endpoint{Device: d}
			}
			sortEndpoints(eps)
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind:      KindDuplicateOwner,
				MAC:       mac,
				Sightings: eps,
				Message:   fmt.Sprintf("%s is claimed by %d devices; ignoring it", mac, len(devs)),
			})
			delete(owners, mac)
		}
	}

	byPort := make(map[devicePair]map[string]map[string]struct{})
	for _, r := range records {
		for mac, port := range e.deviceBindings(r, &result.Diagnostics) {
			devs, ok := owners[mac]
			if !ok || devs[0] == r.ID() {
				continue
			}
			pair := devicePair{local: r.ID(), remote: devs[0]}
			if byPort[pair] == nil {
				byPort[pair] = make(map[string]map[string]struct{})
			}
			if byPort[pair][port] == nil {
				byPort[pair][port] = make(map[string]struct{})
			}
			byPort[pair][port][mac] = struct{}{}
		}
	}

	partials := make(map[devicePair]*partialLink, len(byPort))
	for pair, ports := range byPort {
		var best *partialLink
		for _, port := range sortedKeys(ports) {
			if best == nil || len(ports[port]) > len(best.macs) {
				best = &partialLink{port: port, macs: ports[port]}
			}
		}
		partials[pair] = best
	}

	links := newLinkSet()
	for pair, p := range partials {
		if pair.local > pair.remote {
			continue
		}
		q, ok := partials[devicePair{local: pair.remote, remote: pair.local}]
		if !ok {
			continue
		}
		link := domain.NewLink(
			domain.Endpoint{Device: pair.local, Interface: p.port},
			domain.Endpoint{Device: pair.remote, Interface: q.port},
		)
		for _, mac := range sortedKeys(p.macs) {
			links.add(link, mac)
		}
		for _, mac := range sortedKeys(q.macs) {
			links.add(link, mac)
		}
	}

	for _, pair := range sortedPairs(partials) {
		p := partials[pair]
		if _, ok := partials[devicePair{local: pair.remote, remote: pair.local}]; ok {
			continue
		}
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Kind:      KindOneSided,
			Sightings: []domain.Endpoint{{Device: pair.local, Interface: p.port}, {Device: pair.remote}},
			Message:   fmt.Sprintf("%s sees %s on %s but not the other way round", pair.local, pair.remote, p.port),
		})
	}

	result.Links = links.sorted()
	sortDiagnostics(result.Diagnostics)
	return result
}

func sortedPairs(m map[devicePair]*partialLink) []devicePair {
	pairs := make([]devicePair, 0, len(m))
	for p := range m {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].local != pairs[j].local {
			return pairs[i].local < pairs[j].local
		}
		return pairs[i].remote < pairs[j].remote
	})
	return pairs
}

package inference

import (
	"sort"

	"switchgraph/internal/domain"
)

// linkSet deduplicates links by unordered endpoint pair
type linkSet struct {
	links map[domain.LinkKey]*domain.Link
}

func newLinkSet() *linkSet {
	return &linkSet{links: make(map[domain.LinkKey]*domain.Link)}
}

// add records one piece of evidence for a link
func (s *linkSet) add(link domain.Link, mac string) {
	key := link.Key()
	existing, ok := s.links[key]
	if !ok {
		link.Evidence = 1
		link.SampleMAC = mac
		s.links[key] = &link
		return
	}
	existing.Evidence++
	if mac < existing.SampleMAC {
		existing.SampleMAC = mac
	}
}

func (s *linkSet) sorted() []domain.Link {
	out := make([]domain.Link, 0, len(s.links))
	for _, l := range s.links {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})
	return out
}

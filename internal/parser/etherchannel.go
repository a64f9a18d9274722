package parser

import (
	"regexp"
	"strings"
)

var (
	// Po1(SU)
	portChannelRe = regexp.MustCompile(`^(Po\d+)\(([A-Za-z]+)\)$`)
	// Gi0/1(P)
	memberRe = regexp.MustCompile(`^(\S+?)\(([A-Za-z]+)\)$`)
)

// Member is one physical port of a port-channel
type Member struct {
	Name  string
	Flags string
}

// Bundled reports whether the member is actively in the port-channel
func (m Member) Bundled() bool {
	return strings.Contains(m.Flags, "P")
}

// EtherChannels maps a short port-channel name (Po1) to its members
type EtherChannels map[string][]Member

// ParseEtherChannelSummary parses IOS "show etherchannel summary" output.
// Member lists that wrap onto indented continuation lines are joined to the
// preceding group.
func ParseEtherChannelSummary(text string) EtherChannels {
	channels := make(EtherChannels)
	last := ""

	for _, line := range splitLines(text) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		start := 0
		if !isIndented(line) {
			if len(fields) < 2 {
				last = ""
				continue
			}
			m := portChannelRe.FindStringSubmatch(fields[1])
			if m == nil {
				last = ""
				continue
			}
			last = m[1]
			channels[last] = nil
			start = 2
		} else if last == "" {
			continue
		}

		for _, f := range fields[start:] {
			if m := memberRe.FindStringSubmatch(f); m != nil {
				channels[last] = append(channels[last], Member{
					Name:  ShortInterfaceName(m[1]),
					Flags: m[2],
				})
			}
		}
	}

	return channels
}

// Resolve maps an aggregate name to its physical port when exactly one member
// is bundled. Anything else is returned unchanged and stays opaque.
func (e EtherChannels) Resolve(port string) string {
	if !IsPortChannel(port) {
		return port
	}

	var bundled []Member
	for _, m := range e[ShortInterfaceName(port)] {
		if m.Bundled() {
			bundled = append(bundled, m)
		}
	}
	if len(bundled) != 1 {
		return port
	}
	return bundled[0].Name
}

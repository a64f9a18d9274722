package parser

import (
	"regexp"
	"strings"

	"switchgraph/internal/domain"
)

var (
	// GigabitEthernet0/1 is up, line protocol is up (connected)
	interfaceHeaderRe = regexp.MustCompile(`^(\S+) is (administratively down|up|down|deleted)(?:,\s*line protocol is (\w+))?`)
	// Hardware is Gigabit Ethernet, address is 001d.4543.b901 (bia 001d.4543.b901)
	addressRe     = regexp.MustCompile(`,\s*address is (\S+)`)
	descriptionRe = regexp.MustCompile(`^\s+Description:\s*(.*)$`)
)

// InterfaceResult holds what was parsed from show interfaces output
type InterfaceResult struct {
	Interfaces []domain.Interface
	// OwnedMACs are address lines that did not follow an interface header,
	// as produced by "show interfaces | include , address is"
	OwnedMACs []string
	Skipped   []*domain.ParseError
}

// ParseInterfaces parses IOS "show interfaces" output. Each block starts with a
// non-indented "<name> is <status>, line protocol is <state>" line; indented
// lines below it belong to that interface. A repeated interface name replaces
// the earlier block.
func ParseInterfaces(text string) InterfaceResult {
	var (
		result  InterfaceResult
		device  domain.Device
		current = -1
	)

	skip := func(lineNo int, line, reason string) {
		result.Skipped = append(result.Skipped, &domain.ParseError{
			Command: domain.CommandShowInterfaces,
			LineNo:  lineNo,
			Line:    line,
			Reason:  reason,
		})
	}

	for i, line := range splitLines(text) {
		lineNo := i + 1
		if strings.TrimSpace(line) == "" || isPromptEcho(line) {
			continue
		}

		if !isIndented(line) {
			m := interfaceHeaderRe.FindStringSubmatch(line)
			if m == nil {
				skip(lineNo, line, "unrecognized interface block")
				current = -1
				continue
			}

			iface := domain.Interface{
				Name:   m[1],
				Status: interfaceStatus(m[2], m[3]),
			}
			if device.SetInterface(iface) {
				skip(lineNo, line, "duplicate interface block replaces earlier one")
			}
			current = indexOf(device.Interfaces, iface.Name)
			continue
		}

		if m := addressRe.FindStringSubmatch(line); m != nil {
			mac, err := domain.NormalizeMAC(m[1])
			if err != nil {
				skip(lineNo, line, err.Error())
				continue
			}
			if mac == domain.ZeroMAC {
				continue
			}
			if current >= 0 {
				device.Interfaces[current].MAC = mac
			} else {
				result.OwnedMACs = append(result.OwnedMACs, mac)
			}
			continue
		}

		if m := descriptionRe.FindStringSubmatch(line); m != nil && current >= 0 {
			device.Interfaces[current].Description = strings.TrimSpace(m[1])
		}
	}

	result.Interfaces = device.Interfaces
	return result
}

func interfaceStatus(status, protocol string) domain.InterfaceStatus {
	switch {
	case status == "administratively down":
		return domain.InterfaceStatusAdminDown
	case status != "up":
		return domain.InterfaceStatusDown
	case protocol == "" || protocol == "up":
		return domain.InterfaceStatusUp
	default:
		return domain.InterfaceStatusDown
	}
}

func indexOf(ifaces []domain.Interface, name string) int {
	for i := range ifaces {
		if ifaces[i].Name == name {
			return i
		}
	}
	return -1
}

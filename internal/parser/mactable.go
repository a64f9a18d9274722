package parser

import (
	"strings"

	"switchgraph/internal/domain"
)

// macTableColumns is the IOS layout: Vlan, Mac Address, Type, Ports
const macTableColumns = 4

// MACTableResult holds what was parsed from show mac address-table output
type MACTableResult struct {
	Bindings []domain.MacBinding
	Skipped  []*domain.ParseError
}

// nonPhysicalPorts are destinations that never lead to a neighbouring device
var nonPhysicalPorts = map[string]bool{
	"cpu":    true,
	"router": true,
	"drop":   true,
	"switch": true,
}

// ParseMACTable parses IOS "show mac address-table" output, one binding per
// row. Headers, separators and totals are ignored. Rows with the wrong number
// of columns or an unparsable MAC are skipped and reported. Bindings are
// returned in input order and carry no device identity.
func ParseMACTable(text string) MACTableResult {
	var result MACTableResult

	skip := func(lineNo int, line, reason string) {
		result.Skipped = append(result.Skipped, &domain.ParseError{
			Command: domain.CommandShowMACTable,
			LineNo:  lineNo,
			Line:    line,
			Reason:  reason,
		})
	}

	for i, line := range splitLines(text) {
		lineNo := i + 1
		if isMACTableNoise(line) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != macTableColumns {
			skip(lineNo, line, "unexpected column count")
			continue
		}

		vlan, rawMAC, port := fields[0], fields[1], fields[3]

		mac, err := domain.NormalizeMAC(rawMAC)
		if err != nil {
			skip(lineNo, line, err.Error())
			continue
		}
		if mac == domain.ZeroMAC || nonPhysicalPorts[strings.ToLower(port)] {
			continue
		}
		if strings.Contains(port, ",") {
			skip(lineNo, line, "multiple destination ports")
			continue
		}

		result.Bindings = append(result.Bindings, domain.MacBinding{
			Interface: port,
			MAC:       mac,
			VLAN:      vlan,
		})
	}

	return result
}

func isMACTableNoise(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || isPromptEcho(trimmed) {
		return true
	}
	if strings.Trim(trimmed, "-+ ") == "" {
		return true
	}

	lower := strings.ToLower(trimmed)
	for _, prefix := range []string{"mac address table", "vlan ", "total mac", "multicast entries"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

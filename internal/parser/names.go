package parser

import "strings"

// interfacePrefixes maps long IOS interface type names to the short forms
// used in MAC address tables. Longer names must come first.
var interfacePrefixes = []struct {
	long, short string
}{
	{"HundredGigE", "Hu"},
	{"FortyGigabitEthernet", "Fo"},
	{"TwentyFiveGigE", "Twe"},
	{"TenGigabitEthernet", "Te"},
	{"TwoGigabitEthernet", "Tw"},
	{"GigabitEthernet", "Gi"},
	{"FastEthernet", "Fa"},
	{"Port-channel", "Po"},
	{"Ethernet", "Et"},
	{"Vlan", "Vl"},
}

// ShortInterfaceName abbreviates an interface name (GigabitEthernet0/1 -> Gi0/1).
// Names that are already short or unknown are returned unchanged.
func ShortInterfaceName(name string) string {
	for _, p := range interfacePrefixes {
		if len(name) > len(p.long) && strings.EqualFold(name[:len(p.long)], p.long) {
			return p.short + name[len(p.long):]
		}
	}
	return name
}

// IsPortChannel reports whether the name refers to an aggregate interface
func IsPortChannel(name string) bool {
	short := ShortInterfaceName(name)
	return len(short) > 2 && strings.EqualFold(short[:2], "Po") && isDigit(short[2])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMAC is returned when a string is not a 48-bit hardware address
var ErrInvalidMAC = errors.New("invalid MAC address")

// ZeroMAC is reported by unconfigured port-channels and never identifies a device
const ZeroMAC = "00:00:00:00:00:00"

// MacBinding is a MAC address learned on one interface of one device
type MacBinding struct {
	Device    string `json:"device"`
	Interface string `json:"interface"`
	MAC       string `json:"mac"`
	VLAN      string `json:"vlan,omitempty"`
}

// NormalizeMAC converts dotted (0011.2233.4455), colon, dash or bare hex
// notation into lowercase colon-separated form
func NormalizeMAC(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer(":", "", ".", "", "-", "").Replace(s)
	if len(s) != 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMAC, raw)
	}
	for _, c := range s {
		if !isHex(c) {
			return "", fmt.Errorf("%w: %q", ErrInvalidMAC, raw)
		}
	}

	var b strings.Builder
	b.Grow(17)
	for i := 0; i < 12; i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(s[i : i+2])
	}
	return b.String(), nil
}

func isHex(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

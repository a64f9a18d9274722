package domain

import "fmt"

// Endpoint identifies one side of a link by value
type Endpoint struct {
	Device    string `json:"device"`
	Interface string `json:"interface"`
}

// String renders the endpoint as device:interface
func (e Endpoint) String() string {
	return e.Device + ":" + e.Interface
}

func (e Endpoint) less(o Endpoint) bool {
	if e.Device != o.Device {
		return e.Device < o.Device
	}
	return e.Interface < o.Interface
}

// Link is an inferred undirected connection between two endpoints.
// A is always the lesser endpoint so equal pairs compare equal.
type Link struct {
	A Endpoint `json:"a"`
	B Endpoint `json:"b"`
	// Evidence counts the distinct MAC addresses supporting the link
	Evidence int `json:"evidence"`
	// SampleMAC is the lowest supporting MAC, kept for diagnostics
	SampleMAC string `json:"sample_mac,omitempty"`
}

// NewLink creates a link with canonically ordered endpoints
func NewLink(a, b Endpoint) Link {
	if b.less(a) {
		a, b = b, a
	}
	return Link{A: a, B: b}
}

// LinkKey is the unordered endpoint pair used for deduplication
type LinkKey struct {
	A, B Endpoint
}

// Key returns the deduplication key of the link
func (l Link) Key() LinkKey {
	a, b := l.A, l.B
	if b.less(a) {
		a, b = b, a
	}
	return LinkKey{A: a, B: b}
}

// Less orders links by their canonical key
func (l Link) Less(o Link) bool {
	lk, ok := l.Key(), o.Key()
	if lk.A != ok.A {
		return lk.A.less(ok.A)
	}
	return lk.B.less(ok.B)
}

// String renders the link as A:if <-> B:if
func (l Link) String() string {
	return fmt.Sprintf("%s <-> %s", l.A, l.B)
}

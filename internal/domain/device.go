package domain

import (
	"sort"

	"github.com/maruel/natural"
)

// InterfaceStatus represents the operational state of an interface
type InterfaceStatus string

const (
	InterfaceStatusUp        InterfaceStatus = "up"
	InterfaceStatusDown      InterfaceStatus = "down"
	InterfaceStatusAdminDown InterfaceStatus = "admin-down"
)

// Interface is a physical or logical port on a device
type Interface struct {
	Name        string          `json:"name" yaml:"name"`
	Status      InterfaceStatus `json:"status" yaml:"status"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	// MAC is the interface's own hardware address, if the device reported one
	MAC string `json:"mac,omitempty" yaml:"mac,omitempty"`
}

// Device is a switch the collector talked to
type Device struct {
	// ID is the hostname or address used to reach the device
	ID         string      `json:"id" yaml:"id"`
	Label      string      `json:"label,omitempty" yaml:"label,omitempty"`
	Interfaces []Interface `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
}

// NewDevice creates a device labelled with its identity
func NewDevice(id string) *Device {
	return &Device{ID: id, Label: id}
}

// DisplayLabel returns the label, falling back to the identity
func (d *Device) DisplayLabel() string {
	if d.Label != "" {
		return d.Label
	}
	return d.ID
}

// GetInterface looks up an interface by name
func (d *Device) GetInterface(name string) (Interface, bool) {
	for _, iface := range d.Interfaces {
		if iface.Name == name {
			return iface, true
		}
	}
	return Interface{}, false
}

// SetInterface adds an interface, replacing any existing one with the same
// name. It reports whether a previous record was replaced.
func (d *Device) SetInterface(iface Interface) bool {
	for i := range d.Interfaces {
		if d.Interfaces[i].Name == iface.Name {
			d.Interfaces[i] = iface
			return true
		}
	}
	d.Interfaces = append(d.Interfaces, iface)
	return false
}

// SortInterfaces orders interfaces by natural name order (Gi0/2 before Gi0/10)
func (d *Device) SortInterfaces() {
	sort.SliceStable(d.Interfaces, func(i, j int) bool {
		return natural.Less(d.Interfaces[i].Name, d.Interfaces[j].Name)
	})
}

// OwnedMACs returns the set of MAC addresses reported on the device's own interfaces
func (d *Device) OwnedMACs() map[string]struct{} {
	macs := make(map[string]struct{})
	for _, iface := range d.Interfaces {
		if iface.MAC != "" {
			macs[iface.MAC] = struct{}{}
		}
	}
	return macs
}

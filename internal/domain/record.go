package domain

// Standard commands collected from every device
const (
	CommandShowInterfaces   = "show interfaces"
	CommandShowMACTable     = "show mac address-table"
	CommandShowEtherChannel = "show etherchannel summary"
)

// RequiredCommands are needed for inference; anything else is optional
var RequiredCommands = []string{CommandShowInterfaces, CommandShowMACTable}

// Outcome summarises how collection and parsing went for a device
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomePartial Outcome = "partial"
	OutcomeFailed  Outcome = "failed"
)

// DeviceRecord is everything collected and parsed for one device.
// Records are built independently per device and never share state.
type DeviceRecord struct {
	Device   Device       `json:"device"`
	Bindings []MacBinding `json:"bindings,omitempty"`
	// OwnedMACs are hardware addresses belonging to the device itself that
	// could not be tied to a named interface
	OwnedMACs []string `json:"owned_macs,omitempty"`
	// Outputs holds the raw text per command, including optional commands
	Outputs     map[string]string `json:"-"`
	Diagnostics []*ParseError     `json:"diagnostics,omitempty"`
	Errors      []error           `json:"-"`
}

// NewDeviceRecord creates an empty record for a device identity
func NewDeviceRecord(id string) *DeviceRecord {
	return &DeviceRecord{
		Device:  *NewDevice(id),
		Outputs: make(map[string]string),
	}
}

// ID returns the device identity of the record
func (r *DeviceRecord) ID() string {
	return r.Device.ID
}

// AddError records a collection failure against the device
func (r *DeviceRecord) AddError(err error) {
	if err != nil {
		r.Errors = append(r.Errors, err)
	}
}

// HasData reports whether anything usable was parsed for the device
func (r *DeviceRecord) HasData() bool {
	return len(r.Device.Interfaces) > 0 || len(r.Bindings) > 0 || len(r.OwnedMACs) > 0
}

// Outcome classifies the record as ok, partial or failed
func (r *DeviceRecord) Outcome() Outcome {
	switch {
	case len(r.Errors) > 0 && !r.HasData():
		return OutcomeFailed
	case len(r.Errors) > 0 || len(r.Diagnostics) > 0:
		return OutcomePartial
	default:
		return OutcomeOK
	}
}

// AllOwnedMACs merges interface MACs and unattributed device MACs
func (r *DeviceRecord) AllOwnedMACs() map[string]struct{} {
	macs := r.Device.OwnedMACs()
	for _, mac := range r.OwnedMACs {
		macs[mac] = struct{}{}
	}
	return macs
}

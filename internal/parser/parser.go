package parser

import (
	"fmt"

	"switchgraph/internal/domain"
)

// Options controls optional parsing behaviour
type Options struct {
	// ResolvePortChannels maps Po aliases in the MAC table to their single
	// bundled member when "show etherchannel summary" output is available
	ResolvePortChannels bool
}

// ParseDevice builds a device record from the raw output of each command.
// Missing or unparsable output degrades the record instead of failing it;
// the only error is a missing device identity.
func ParseDevice(deviceID string, outputs map[string]string, opts Options) (*domain.DeviceRecord, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("%w: empty device identity", domain.ErrInvalidRecord)
	}

	record := domain.NewDeviceRecord(deviceID)
	for cmd, out := range outputs {
		record.Outputs[cmd] = out
	}

	if text, ok := outputs[domain.CommandShowInterfaces]; ok {
		ifaces := ParseInterfaces(text)
		record.Device.Interfaces = ifaces.Interfaces
		record.Device.SortInterfaces()
		record.OwnedMACs = ifaces.OwnedMACs
		record.Diagnostics = append(record.Diagnostics, ifaces.Skipped...)
	}

	if text, ok := outputs[domain.CommandShowMACTable]; ok {
		table := ParseMACTable(text)

		var channels EtherChannels
		if summary, ok := outputs[domain.CommandShowEtherChannel]; ok && opts.ResolvePortChannels {
			channels = ParseEtherChannelSummary(summary)
		}

		for _, b := range table.Bindings {
			b.Device = deviceID
			if channels != nil {
				b.Interface = channels.Resolve(b.Interface)
			}
			record.Bindings = append(record.Bindings, b)
		}
		record.Diagnostics = append(record.Diagnostics, table.Skipped...)
	}

	for _, d := range record.Diagnostics {
		d.Device = deviceID
	}

	return record, nil
}

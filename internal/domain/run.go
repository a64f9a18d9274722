package domain

import (
	"fmt"
	"time"
)

// RunSource says where a run's command output came from
type RunSource string

const (
	RunSourceLive   RunSource = "live"
	RunSourceReplay RunSource = "replay"
)

// DeviceReport is the per-device outcome of a run
type DeviceReport struct {
	Device     string  `json:"device"`
	Outcome    Outcome `json:"outcome"`
	Interfaces int     `json:"interfaces"`
	Bindings   int     `json:"bindings"`
	Skipped    int     `json:"skipped"`
	Error      string  `json:"error,omitempty"`
}

// NewDeviceReport summarises a device record
func NewDeviceReport(r *DeviceRecord) DeviceReport {
	report := DeviceReport{
		Device:     r.ID(),
		Outcome:    r.Outcome(),
		Interfaces: len(r.Device.Interfaces),
		Bindings:   len(r.Bindings),
		Skipped:    len(r.Diagnostics),
	}
	if len(r.Errors) > 0 {
		report.Error = r.Errors[0].Error()
		if n := len(r.Errors) - 1; n > 0 {
			report.Error += fmt.Sprintf(" (+%d more)", n)
		}
	}
	return report
}

// Run is one complete collect/infer/assemble pass
type Run struct {
	ID         string         `json:"id"`
	Source     RunSource      `json:"source"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Devices    []DeviceReport `json:"devices"`
	Links      []Link         `json:"links"`
	Nodes      int            `json:"nodes"`
	Edges      int            `json:"edges"`
	Output     string         `json:"output,omitempty"`
}

// Count returns how many devices ended with the given outcome
func (r *Run) Count(outcome Outcome) int {
	n := 0
	for _, d := range r.Devices {
		if d.Outcome == outcome {
			n++
		}
	}
	return n
}

// AllFailed reports whether every device failed. A run with no devices
// counts as failed.
func (r *Run) AllFailed() bool {
	return r.Count(OutcomeFailed) == len(r.Devices)
}

// RunSummary is a run without its per-device and link detail
type RunSummary struct {
	ID         string    `json:"id"`
	Source     RunSource `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Devices    int       `json:"devices"`
	Failed     int       `json:"failed"`
	Nodes      int       `json:"nodes"`
	Edges      int       `json:"edges"`
}

// Summary drops the detail of a run
func (r *Run) Summary() RunSummary {
	return RunSummary{
		ID:         r.ID,
		Source:     r.Source,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Devices:    len(r.Devices),
		Failed:     r.Count(OutcomeFailed),
		Nodes:      r.Nodes,
		Edges:      r.Edges,
	}
}

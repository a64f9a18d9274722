package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"switchgraph/internal/domain"
	"switchgraph/internal/store"
)

func TestRunReport(t *testing.T) {
	run := &domain.Run{
		Devices: []domain.DeviceReport{
			{Device: "core", Outcome: domain.OutcomeOK, Interfaces: 24, Bindings: 100},
			{Device: "edge-1", Outcome: domain.OutcomePartial, Interfaces: 8, Bindings: 3, Skipped: 2},
			{Device: "edge-2", Outcome: domain.OutcomeFailed, Error: "session edge-2: connection refused"},
		},
		Nodes:  2,
		Edges:  1,
		Output: "html/data.json",
	}
	change := store.Change{AddedEdges: []domain.GraphEdge{{From: "core", To: "edge-1"}}}

	var buf bytes.Buffer
	RunReport(&buf, run, change)
	out := buf.String()

	assert.Contains(t, out, "24 interfaces, 100 macs")
	assert.Contains(t, out, "(2 lines skipped)")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "3 devices (1 ok, 1 partial, 1 failed) -> 2 nodes, 1 links")
	assert.Contains(t, out, "Wrote html/data.json")
	assert.Contains(t, out, "+1 links")
}

func TestRunHistory(t *testing.T) {
	var buf bytes.Buffer
	RunHistory(&buf, nil)
	assert.Contains(t, buf.String(), "No history recorded")

	buf.Reset()
	RunHistory(&buf, []domain.RunSummary{
		{ID: "0123456789abcdef", Source: domain.RunSourceLive, StartedAt: time.Now(), Devices: 3, Failed: 1, Nodes: 2, Edges: 1},
		{ID: "short", Source: domain.RunSourceReplay, StartedAt: time.Now(), Devices: 2, Failed: 2},
	})
	out := buf.String()
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "2/3 devices")
	assert.Contains(t, out, "0/2 devices")
}

func TestFormatError(t *testing.T) {
	out := FormatError("Failed to load config", "parse config: bad yaml", "check the indentation")
	assert.Contains(t, out, "Error: Failed to load config")
	assert.Contains(t, out, "parse config: bad yaml")
	assert.Contains(t, out, "Hint: check the indentation")
}

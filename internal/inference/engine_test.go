package inference

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"switchgraph/internal/domain"
)

// record builds a device record from "interface mac" pairs
func record(id string, bindings ...string) *domain.DeviceRecord {
	r := domain.NewDeviceRecord(id)
	for i := 0; i+1 < len(bindings); i += 2 {
		r.Bindings = append(r.Bindings, domain.MacBinding{
			Device:    id,
			Interface: bindings[i],
			MAC:       bindings[i+1],
			VLAN:      "1",
		})
	}
	return r
}

func newEngine(opts Options) *Engine {
	return New(opts, zerolog.Nop())
}

func ep(device, iface string) domain.Endpoint {
	return domain.Endpoint{Device: device, Interface: iface}
}

func TestInferTwoDeviceScenario(t *testing.T) {
	records := []*domain.DeviceRecord{
		record("A", "Gi0/1", "aa:aa:aa:aa:aa:aa"),
		record("B", "Gi0/3", "aa:aa:aa:aa:aa:aa"),
	}

	result, err := newEngine(Options{}).Infer(records)
	require.NoError(t, err)

	require.Len(t, result.Links, 1)
	link := result.Links[0]
	assert.Equal(t, ep("A", "Gi0/1"), link.A)
	assert.Equal(t, ep("B", "Gi0/3"), link.B)
	assert.Equal(t, 1, link.Evidence)
	assert.Equal(t, "aa:aa:aa:aa:aa:aa", link.SampleMAC)
	assert.Empty(t, result.Diagnostics)
}

func TestInferSingleSightingIsLeaf(t *testing.T) {
	records := []*domain.DeviceRecord{
		record("A", "Gi0/1", "aa:aa:aa:aa:aa:01", "Gi0/2", "aa:aa:aa:aa:aa:02"),
		record("B", "Gi0/3", "bb:bb:bb:bb:bb:01"),
	}

	result, err := newEngine(Options{}).Infer(records)
	require.NoError(t, err)
	assert.Empty(t, result.Links)
	assert.Empty(t, result.Diagnostics)
}

func TestInferThreeDevicesIsAmbiguous(t *testing.T) {
	mac := "cc:cc:cc:cc:cc:cc"
	records := []*domain.DeviceRecord{
		record("A", "Gi0/1", mac),
		record("B", "Gi0/2", mac),
		record("C", "Gi0/3", mac),
	}

	result, err := newEngine(Options{}).Infer(records)
	require.NoError(t, err)

	assert.Empty(t, result.Links)
	require.Len(t, result.Diagnostics, 1)
	d := result.Diagnostics[0]
	assert.Equal(t, KindAmbiguousSharedSegment, d.Kind)
	assert.Equal(t, mac, d.MAC)
	assert.Equal(t, []domain.Endpoint{ep("A", "Gi0/1"), ep("B", "Gi0/2"), ep("C", "Gi0/3")}, d.Sightings)
}

func TestInferDeduplicatesByEndpointPair(t *testing.T) {
	records := []*domain.DeviceRecord{
		record("A", "Gi0/1", "aa:00:00:00:00:02", "Gi0/1", "aa:00:00:00:00:01", "Gi0/1", "aa:00:00:00:00:03"),
		record("B", "Gi0/3", "aa:00:00:00:00:01", "Gi0/3", "aa:00:00:00:00:02", "Gi0/3", "aa:00:00:00:00:03"),
	}

	result, err := newEngine(Options{}).Infer(records)
	require.NoError(t, err)

	require.Len(t, result.Links, 1)
	assert.Equal(t, 3, result.Links[0].Evidence)
	assert.Equal(t, "aa:00:00:00:00:01", result.Links[0].SampleMAC)
}

func TestInferSameDeviceConflictKeepsLastBinding(t *testing.T) {
	mac := "dd:dd:dd:dd:dd:dd"
	records := []*domain.DeviceRecord{
		record("A", "Gi0/1", mac, "Gi0/2", mac),
		record("B", "Gi0/3", mac),
	}

	result, err := newEngine(Options{}).Infer(records)
	require.NoError(t, err)

	require.Len(t, result.Links, 1)
	assert.Equal(t, ep("A", "Gi0/2"), result.Links[0].A)
	assert.Equal(t, 1, result.Count(KindSameDeviceConflict))
}

func TestInferDropConflictingMACs(t *testing.T) {
	mac := "dd:dd:dd:dd:dd:dd"
	records := []*domain.DeviceRecord{
		record("A", "Gi0/1", mac, "Gi0/2", mac),
		record("B", "Gi0/3", mac),
	}

	result, err := newEngine(Options{DropConflictingMACs: true}).Infer(records)
	require.NoError(t, err)

	assert.Empty(t, result.Links)
	assert.Equal(t, 1, result.Count(KindSameDeviceConflict))
}

func TestInferSameInterfaceDifferentVLANIsNotAConflict(t *testing.T) {
	mac := "ee:ee:ee:ee:ee:ee"
	a := record("A", "Gi0/1", mac, "Gi0/1", mac)
	a.Bindings[1].VLAN = "20"

	result, err := newEngine(Options{}).Infer([]*domain.DeviceRecord{a, record("B", "Gi0/3", mac)})
	require.NoError(t, err)

	assert.Len(t, result.Links, 1)
	assert.Empty(t, result.Diagnostics)
}

func TestInferIsOrderIndependent(t *testing.T) {
	records := []*domain.DeviceRecord{
		record("A", "Gi0/1", "00:00:00:00:00:01", "Gi0/2", "00:00:00:00:00:02", "Gi0/5", "00:00:00:00:00:09"),
		record("B", "Gi0/3", "00:00:00:00:00:01", "Gi0/4", "00:00:00:00:00:03", "Gi0/5", "00:00:00:00:00:09"),
		record("C", "Gi0/7", "00:00:00:00:00:02", "Gi0/8", "00:00:00:00:00:03", "Gi0/9", "00:00:00:00:00:09"),
		record("D", "Gi0/1", "00:00:00:00:00:04"),
	}

	engine := newEngine(Options{})
	want, err := engine.Infer(records)
	require.NoError(t, err)
	require.Len(t, want.Links, 3)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]*domain.DeviceRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := engine.Infer(shuffled)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("permutation %d changed the result (-want +got):\n%s", i, diff)
		}
	}
}

func TestInferRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []*domain.DeviceRecord
	}{
		{name: "nil record", records: []*domain.DeviceRecord{nil}},
		{name: "empty identity", records: []*domain.DeviceRecord{record("")}},
		{name: "duplicate identity", records: []*domain.DeviceRecord{record("A"), record("A")}},
		{
			name: "foreign binding",
			records: []*domain.DeviceRecord{{
				Device:   domain.Device{ID: "A"},
				Bindings: []domain.MacBinding{{Device: "B", Interface: "Gi0/1", MAC: "aa:aa:aa:aa:aa:aa"}},
			}},
		},
		{
			name: "incomplete binding",
			records: []*domain.DeviceRecord{{
				Device:   domain.Device{ID: "A"},
				Bindings: []domain.MacBinding{{Device: "A", MAC: "aa:aa:aa:aa:aa:aa"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newEngine(Options{}).Infer(tt.records)
			require.ErrorIs(t, err, domain.ErrInvalidRecord)
		})
	}
}

func TestInferEmptyInput(t *testing.T) {
	result, err := newEngine(Options{}).Infer(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Links)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategySharedMAC, s)

	s, err = ParseStrategy("Owned-MAC")
	require.NoError(t, err)
	assert.Equal(t, StrategyOwnedMAC, s)

	_, err = ParseStrategy("lldp")
	assert.Error(t, err)
}

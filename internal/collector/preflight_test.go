package collector

import (
	"context"
	"errors"
	"testing"

	nmap "github.com/Ullaakut/nmap/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"switchgraph/internal/domain"
)

func scanResult() *nmap.Run {
	return &nmap.Run{
		Hosts: []nmap.Host{
			{
				Addresses: []nmap.Address{{Addr: "10.0.0.1", AddrType: "ipv4"}},
				Status:    nmap.Status{State: "up"},
				Ports:     []nmap.Port{{ID: 22, Protocol: "tcp", State: nmap.State{State: "open"}}},
			},
			{
				Addresses: []nmap.Address{{Addr: "10.0.0.2", AddrType: "ipv4"}},
				Hostnames: []nmap.Hostname{{Name: "sw2.lab", Type: "user"}},
				Status:    nmap.Status{State: "up"},
				Ports:     []nmap.Port{{ID: 22, Protocol: "tcp", State: nmap.State{State: "filtered"}}},
			},
			{
				Addresses: []nmap.Address{{Addr: "10.0.0.3", AddrType: "ipv4"}},
				Status:    nmap.Status{State: "down"},
			},
		},
	}
}

func TestEvaluateScan(t *testing.T) {
	failures := evaluateScan(scanResult(), []Target{
		{Host: "10.0.0.1"},
		{ID: "sw2", Host: "sw2.lab"},
		{Host: "10.0.0.3"},
		{Host: "10.0.0.4"},
		{Host: "10.0.0.1", ID: "alt", Port: 2222},
	})

	assert.NotContains(t, failures, "10.0.0.1")
	assert.NotContains(t, failures, "10.0.0.4", "hosts missing from the scan are left to SSH")
	assert.ErrorIs(t, failures["sw2"], ErrPortClosed)
	assert.ErrorContains(t, failures["10.0.0.3"], "down")
	assert.ErrorIs(t, failures["alt"], ErrPortClosed)
}

func TestPreflightCheck(t *testing.T) {
	var gotHosts []string
	var gotPorts []int
	scan := func(_ context.Context, hosts []string, ports []int) (*nmap.Run, error) {
		gotHosts, gotPorts = hosts, ports
		return scanResult(), nil
	}
	p := NewPreflight(scan, zerolog.Nop())

	failures, err := p.Check(context.Background(), []Target{
		{Host: "10.0.0.2"}, {Host: "10.0.0.1"}, {Host: "10.0.0.1", ID: "b", Port: 830},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, gotHosts)
	assert.Equal(t, []int{22, 830}, gotPorts)
	assert.Len(t, failures, 2)
	assert.Contains(t, failures, "10.0.0.2")
	assert.Contains(t, failures, "b")
}

func TestCollectWithPreflight(t *testing.T) {
	scan := func(context.Context, []string, []int) (*nmap.Run, error) { return scanResult(), nil }
	dialer := &fakeDialer{sessions: map[string]*fakeSession{
		"10.0.0.1": healthy(),
		"10.0.0.2": healthy(),
	}}

	c := New(dialer, Options{Preflight: NewPreflight(scan, zerolog.Nop())}, zerolog.Nop())
	records := c.Collect(context.Background(), []Target{{Host: "10.0.0.1"}, {Host: "10.0.0.2"}})

	assert.Equal(t, domain.OutcomeOK, records[0].Outcome())
	assert.Equal(t, domain.OutcomeFailed, records[1].Outcome())
	assert.ErrorIs(t, records[1].Errors[0], ErrPortClosed)
	assert.Equal(t, 1, dialer.dials, "the closed host is never dialled")
}

func TestCollectPreflightErrorFallsBack(t *testing.T) {
	scan := func(context.Context, []string, []int) (*nmap.Run, error) { return nil, errors.New("nmap missing") }
	dialer := &fakeDialer{sessions: map[string]*fakeSession{"10.0.0.2": healthy()}}

	c := New(dialer, Options{Preflight: NewPreflight(scan, zerolog.Nop())}, zerolog.Nop())
	records := c.Collect(context.Background(), []Target{{Host: "10.0.0.2"}})

	assert.Equal(t, domain.OutcomeOK, records[0].Outcome())
}

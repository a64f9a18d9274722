package collector

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"switchgraph/internal/domain"
)

const interfacesA = `GigabitEthernet0/1 is up, line protocol is up (connected)
  Hardware is Gigabit Ethernet, address is 001d.4543.a001 (bia 001d.4543.a001)
`

const macTableA = `Vlan    Mac Address       Type        Ports
----    -----------       --------    -----
   1    aaaa.bbbb.cccc    DYNAMIC     Gi0/1
`

// fakeSession serves canned output per command
type fakeSession struct {
	outputs map[string]string
	fail    map[string]error
	delay   time.Duration
	closed  atomic.Bool
}

func (f *fakeSession) Run(ctx context.Context, deviceID, command string) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err, ok := f.fail[command]; ok {
		return "", err
	}
	out, ok := f.outputs[command]
	if !ok {
		return "", ErrNoCapture
	}
	return out, nil
}

func (f *fakeSession) Close() error {
	f.closed.Store(true)
	return nil
}

// fakeDialer maps device ids to sessions; unknown ids fail to connect
type fakeDialer struct {
	mu       sync.Mutex
	sessions map[string]*fakeSession
	active   int
	peak     int
	dials    int
}

func (d *fakeDialer) Dial(_ context.Context, target Target) (Session, error) {
	s, ok := d.sessions[target.DeviceID()]
	if !ok {
		return nil, errors.New("connection refused")
	}
	d.mu.Lock()
	d.dials++
	d.active++
	if d.active > d.peak {
		d.peak = d.active
	}
	d.mu.Unlock()
	return &trackedSession{fakeSession: s, dialer: d}, nil
}

type trackedSession struct {
	*fakeSession
	dialer *fakeDialer
}

func (t *trackedSession) Close() error {
	t.dialer.mu.Lock()
	t.dialer.active--
	t.dialer.mu.Unlock()
	return t.fakeSession.Close()
}

func healthy() *fakeSession {
	return &fakeSession{outputs: map[string]string{
		domain.CommandShowInterfaces: interfacesA,
		domain.CommandShowMACTable:   macTableA,
	}}
}

func TestCollectIsolatesFailures(t *testing.T) {
	partial := &fakeSession{
		outputs: map[string]string{domain.CommandShowInterfaces: interfacesA},
		fail:    map[string]error{domain.CommandShowMACTable: errors.New("channel closed")},
	}
	dialer := &fakeDialer{sessions: map[string]*fakeSession{
		"sw1": healthy(),
		"sw3": partial,
	}}
	c := New(dialer, Options{Workers: 2}, zerolog.Nop())

	records := c.Collect(context.Background(), []Target{
		{Host: "sw1", Label: "core"},
		{Host: "sw2"},
		{Host: "sw3"},
	})
	require.Len(t, records, 3)

	assert.Equal(t, "sw1", records[0].ID())
	assert.Equal(t, "core", records[0].Device.Label)
	assert.Equal(t, domain.OutcomeOK, records[0].Outcome())
	require.Len(t, records[0].Bindings, 1)
	assert.Equal(t, "aa:aa:bb:bb:cc:cc", records[0].Bindings[0].MAC)

	assert.Equal(t, "sw2", records[1].ID())
	assert.Equal(t, domain.OutcomeFailed, records[1].Outcome())
	var sessErr *domain.SessionError
	require.ErrorAs(t, records[1].Errors[0], &sessErr)
	assert.Equal(t, "sw2", sessErr.Device)
	assert.Empty(t, sessErr.Command)

	assert.Equal(t, domain.OutcomePartial, records[2].Outcome())
	require.ErrorAs(t, records[2].Errors[0], &sessErr)
	assert.Equal(t, domain.CommandShowMACTable, sessErr.Command)
	assert.Len(t, records[2].Device.Interfaces, 1)

	assert.True(t, dialer.sessions["sw1"].closed.Load())
	assert.True(t, partial.closed.Load())
}

func TestCollectBoundsConcurrency(t *testing.T) {
	sessions := make(map[string]*fakeSession)
	var targets []Target
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		s := healthy()
		s.delay = 20 * time.Millisecond
		sessions[id] = s
		targets = append(targets, Target{Host: id})
	}
	dialer := &fakeDialer{sessions: sessions}

	records := New(dialer, Options{Workers: 2}, zerolog.Nop()).Collect(context.Background(), targets)

	require.Len(t, records, len(targets))
	for i, rec := range records {
		assert.Equal(t, targets[i].Host, rec.ID())
		assert.Equal(t, domain.OutcomeOK, rec.Outcome())
	}
	assert.LessOrEqual(t, dialer.peak, 2)
}

func TestCollectAllUnreachable(t *testing.T) {
	dialer := &fakeDialer{sessions: map[string]*fakeSession{}}

	records := New(dialer, Options{}, zerolog.Nop()).Collect(context.Background(), []Target{{Host: "x"}, {Host: "y"}})

	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, domain.OutcomeFailed, rec.Outcome())
	}
}

func TestCollectExtraCommandsLandInOutputs(t *testing.T) {
	s := healthy()
	s.outputs["show version"] = "Cisco IOS Software"
	dialer := &fakeDialer{sessions: map[string]*fakeSession{"sw1": s}}

	c := New(dialer, Options{Commands: []string{
		domain.CommandShowInterfaces, domain.CommandShowMACTable, "show version",
	}}, zerolog.Nop())
	records := c.Collect(context.Background(), []Target{{Host: "sw1"}})

	require.Len(t, records, 1)
	assert.Equal(t, "Cisco IOS Software", records[0].Outputs["show version"])
	assert.Equal(t, domain.OutcomeOK, records[0].Outcome())
}

func TestCollectHonoursCancellation(t *testing.T) {
	s := healthy()
	s.delay = time.Minute
	dialer := &fakeDialer{sessions: map[string]*fakeSession{"sw1": s}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	records := New(dialer, Options{}, zerolog.Nop()).Collect(ctx, []Target{{Host: "sw1"}})

	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeFailed, records[0].Outcome())
	require.Len(t, records[0].Errors, 1, "collection stops after the context ends")
	assert.ErrorIs(t, records[0].Errors[0], context.DeadlineExceeded)
}

func TestTargetDefaults(t *testing.T) {
	target := Target{Host: "10.0.0.1"}
	assert.Equal(t, "10.0.0.1", target.DeviceID())
	assert.Equal(t, "10.0.0.1:22", target.Address())

	target = Target{ID: "core", Host: "fe80::1", Port: 2222}
	assert.Equal(t, "core", target.DeviceID())
	assert.Equal(t, "[fe80::1]:2222", target.Address())
}

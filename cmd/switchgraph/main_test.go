package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"switchgraph/internal/codec"
	"switchgraph/internal/collector"
	"switchgraph/internal/config"
	"switchgraph/internal/domain"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func capture(t *testing.T, dir, device, command, body string) {
	writeFile(t, filepath.Join(dir, device, collector.CommandSlug(command)+".txt"), body)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestReplayWritesTopology(t *testing.T) {
	dir := t.TempDir()
	captures := filepath.Join(dir, "captures")
	capture(t, captures, "A", domain.CommandShowInterfaces, "GigabitEthernet0/1 is up, line protocol is up\n")
	capture(t, captures, "A", domain.CommandShowMACTable, "   1    0011.2233.4455    DYNAMIC     Gi0/1\n")
	capture(t, captures, "B", domain.CommandShowInterfaces, "GigabitEthernet0/3 is up, line protocol is up\n")
	capture(t, captures, "B", domain.CommandShowMACTable, "   1    0011.2233.4455    DYNAMIC     Gi0/3\n")

	cfgPath := filepath.Join(dir, "switchgraph.yaml")
	writeFile(t, cfgPath, "devices:\n  - host: A\n    label: core\n")
	output := filepath.Join(dir, "html", "data.json")
	historyDB := filepath.Join(dir, "history.db")

	out, err := runCLI(t, "replay", "--config", cfgPath, "--env-file", filepath.Join(dir, "none.env"),
		"--dir", captures, "--output", output, "--history", historyDB)
	require.NoError(t, err)
	assert.Contains(t, out, "2 devices (2 ok, 0 partial, 0 failed) -> 2 nodes, 1 links")

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	graph, err := codec.NewJSONCodec().Parse(f)
	require.NoError(t, err)

	assert.Equal(t, []domain.GraphNode{{ID: "A", Label: "core"}, {ID: "B", Label: "B"}}, graph.Nodes)
	require.Len(t, graph.Edges, 1)
	assert.Equal(t, "Gi0/1 - Gi0/3", graph.Edges[0].Label)

	out, err = runCLI(t, "history", "--config", cfgPath, "--db", historyDB)
	require.NoError(t, err)
	assert.Contains(t, out, "2/2 devices")
}

func TestReplayAppendsEvents(t *testing.T) {
	dir := t.TempDir()
	captures := filepath.Join(dir, "captures")
	capture(t, captures, "A", domain.CommandShowInterfaces, "GigabitEthernet0/1 is up, line protocol is up\n")
	capture(t, captures, "A", domain.CommandShowMACTable, "   1    0011.2233.4455    DYNAMIC     Gi0/1\n")
	cfgPath := filepath.Join(dir, "switchgraph.yaml")
	writeFile(t, cfgPath, "version: 1\n")
	eventsPath := filepath.Join(dir, "events.jsonl")

	for i := 0; i < 2; i++ {
		_, err := runCLI(t, "replay", "--config", cfgPath, "--env-file", filepath.Join(dir, "none.env"),
			"--dir", captures, "--output", filepath.Join(dir, "data.json"), "--no-history", "--events", eventsPath)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(eventsPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 6, "both runs should be appended")

	var types []string
	for _, line := range lines {
		var ev struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &ev))
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{
		"run_started", "device_collected", "run_finished",
		"run_started", "device_collected", "run_finished",
	}, types)
}

func TestReplayAllDevicesFailed(t *testing.T) {
	dir := t.TempDir()
	captures := filepath.Join(dir, "captures")
	require.NoError(t, os.MkdirAll(filepath.Join(captures, "A"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(captures, "B"), 0755))
	cfgPath := filepath.Join(dir, "switchgraph.yaml")
	writeFile(t, cfgPath, "version: 1\n")
	output := filepath.Join(dir, "data.json")

	_, err := runCLI(t, "replay", "--config", cfgPath, "--dir", captures, "--output", output, "--no-history")
	require.ErrorIs(t, err, domain.ErrAllDevicesFailed)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":[],"edges":[]}`, string(data))
}

func TestReplayRequiresDir(t *testing.T) {
	_, err := runCLI(t, "replay")
	assert.ErrorContains(t, err, "--dir is required")
}

func TestCollectValidatesBeforeConnecting(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "switchgraph.yaml")
	writeFile(t, cfgPath, "version: 1\n")
	t.Setenv(config.EnvUsername, "")
	t.Setenv(config.EnvPassword, "")
	t.Setenv(config.EnvKeyFile, "")

	_, err := runCLI(t, "collect", "--config", cfgPath, "--host", "10.0.0.1")
	assert.ErrorContains(t, err, "username is required")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "switchgraph.yaml")
	writeFile(t, cfgPath, "devices:\n  - host: 10.0.0.1\ncredentials:\n  username: admin\n  password: secret\n")

	out, err := runCLI(t, "validate", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, cfgPath)
	assert.Contains(t, out, "Devices: 1")

	writeFile(t, cfgPath, "inference:\n  strategy: lldp\n")
	_, err = runCLI(t, "validate", "--config", cfgPath, "--offline")
	assert.Error(t, err)
}

func TestCommandList(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Collection.Commands = []string{"show version", domain.CommandShowMACTable}
	cfg.Inference.ResolvePortChannels = true

	assert.Equal(t, []string{
		domain.CommandShowInterfaces,
		domain.CommandShowMACTable,
		"show version",
		domain.CommandShowEtherChannel,
	}, commandList(cfg))
	assert.Len(t, cfg.Collection.Commands, 2)
}

func TestHistoryMissingDatabase(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "switchgraph.yaml")
	writeFile(t, cfgPath, "version: 1\n")
	db := filepath.Join(dir, "missing.db")

	out, err := runCLI(t, "history", "--config", cfgPath, "--env-file", filepath.Join(dir, "none.env"), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No history recorded")

	_, err = os.Stat(db)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestErrorTitle(t *testing.T) {
	interrupted := fmt.Errorf("collection interrupted: %w", context.Canceled)
	assert.Equal(t, "Run interrupted", errorTitle(interrupted))
	assert.Contains(t, errorHint(interrupted), "left in place")

	assert.Equal(t, "No device could be collected", errorTitle(domain.ErrAllDevicesFailed))
}

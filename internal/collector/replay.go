package collector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// ErrNoCapture means no captured output exists for a device or command
var ErrNoCapture = errors.New("no captured output")

// CommandSlug turns a command into a file name stem,
// e.g. "show mac address-table" -> "show-mac-address-table"
func CommandSlug(command string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(command)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// ReplayDialer opens ReplaySessions rooted at a capture directory laid out as
// <dir>/<device>/<command-slug>.txt
type ReplayDialer struct {
	dir string
}

// NewReplayDialer creates a dialer reading captures under dir
func NewReplayDialer(dir string) *ReplayDialer {
	return &ReplayDialer{dir: dir}
}

// Dial opens the capture directory of the target's device
func (d *ReplayDialer) Dial(_ context.Context, target Target) (Session, error) {
	deviceDir := filepath.Join(d.dir, target.DeviceID())
	info, err := os.Stat(deviceDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w for device %s", ErrNoCapture, target.DeviceID())
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", deviceDir)
	}
	return &ReplaySession{dir: deviceDir}, nil
}

// Targets lists one target per device directory, sorted by name
func (d *ReplayDialer) Targets() ([]Target, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("read capture dir: %w", err)
	}

	var targets []Target
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		targets = append(targets, Target{ID: e.Name(), Host: e.Name()})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].ID < targets[j].ID })
	return targets, nil
}

// ReplaySession serves captured command output for one device
type ReplaySession struct {
	dir string
}

// Run returns the captured output of a command
func (s *ReplaySession) Run(ctx context.Context, deviceID, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, CommandSlug(command)+".txt")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w for %s %q", ErrNoCapture, deviceID, command)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close is a no-op
func (s *ReplaySession) Close() error {
	return nil
}

package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	nmap "github.com/Ullaakut/nmap/v3"
	"github.com/rs/zerolog"
)

// ErrPortClosed means the preflight sweep found the SSH port not open
var ErrPortClosed = errors.New("ssh port not open")

// ScanFunc runs a TCP port scan of hosts
type ScanFunc func(ctx context.Context, hosts []string, ports []int) (*nmap.Run, error)

// Preflight checks SSH reachability of all targets with a single nmap sweep
// so unreachable devices fail fast instead of waiting for a connect timeout
type Preflight struct {
	scan   ScanFunc
	logger zerolog.Logger
}

// NewPreflight creates a preflight using nmap; scan may be nil
func NewPreflight(scan ScanFunc, logger zerolog.Logger) *Preflight {
	if scan == nil {
		scan = nmapScan(logger)
	}
	return &Preflight{scan: scan, logger: logger}
}

// Check returns an error per device id whose SSH port is known to be
// closed or whose host is down. Hosts missing from the scan result are left
// to the SSH attempt.
func (p *Preflight) Check(ctx context.Context, targets []Target) (map[string]error, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	hostSet := make(map[string]bool)
	portSet := make(map[int]bool)
	for _, t := range targets {
		hostSet[t.Host] = true
		portSet[portOf(t)] = true
	}
	hosts := make([]string, 0, len(hostSet))
	for h := range hostSet {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	ports := make([]int, 0, len(portSet))
	for port := range portSet {
		ports = append(ports, port)
	}
	sort.Ints(ports)

	result, err := p.scan(ctx, hosts, ports)
	if err != nil {
		return nil, fmt.Errorf("preflight scan: %w", err)
	}

	failures := evaluateScan(result, targets)
	for id, ferr := range failures {
		p.logger.Info().Str("device", id).Err(ferr).Msg("Preflight marked device unreachable")
	}
	return failures, nil
}

// evaluateScan matches scan results to targets by address or hostname
func evaluateScan(result *nmap.Run, targets []Target) map[string]error {
	failures := make(map[string]error)
	if result == nil {
		return failures
	}

	byName := make(map[string]*nmap.Host)
	for i := range result.Hosts {
		h := &result.Hosts[i]
		for _, addr := range h.Addresses {
			byName[addr.Addr] = h
		}
		for _, hn := range h.Hostnames {
			byName[hn.Name] = h
		}
	}

	for _, t := range targets {
		host, ok := byName[t.Host]
		if !ok {
			continue
		}
		if host.Status.State != "up" {
			failures[t.DeviceID()] = fmt.Errorf("host %s is %s", t.Host, host.Status.State)
			continue
		}
		port := portOf(t)
		state := "unknown"
		for _, p := range host.Ports {
			if int(p.ID) == port {
				state = p.State.State
				break
			}
		}
		if state != "open" {
			failures[t.DeviceID()] = fmt.Errorf("%w: %s:%d is %s", ErrPortClosed, t.Host, port, state)
		}
	}
	return failures
}

func portOf(t Target) int {
	if t.Port == 0 {
		return 22
	}
	return t.Port
}

func nmapScan(logger zerolog.Logger) ScanFunc {
	return func(ctx context.Context, hosts []string, ports []int) (*nmap.Run, error) {
		portList := make([]string, len(ports))
		for i, p := range ports {
			portList[i] = strconv.Itoa(p)
		}

		scanner, err := nmap.NewScanner(
			ctx,
			nmap.WithTargets(hosts...),
			nmap.WithPorts(strings.Join(portList, ",")),
			nmap.WithSkipHostDiscovery(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create scanner: %w", err)
		}

		result, warnings, err := scanner.Run()
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		if warnings != nil && len(*warnings) > 0 {
			logger.Debug().Strs("warnings", *warnings).Msg("nmap warnings")
		}
		return result, nil
	}
}

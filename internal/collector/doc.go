// Package collector fetches command output from switches and turns it into
// device records.
//
// A Session runs commands against one device. SSHSession talks to real
// hardware, ReplaySession reads captured text from disk. The Collector fans
// out over a bounded worker pool, one isolated record per device, and
// returns only when every device has a record.
package collector

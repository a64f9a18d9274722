// Package domain defines the core types for the switchgraph topology inference pipeline.
//
// This package contains the entities passed between the pipeline stages:
// what was collected from each switch, what the parser made of it, what the
// inference engine concluded, and the graph document handed to the renderer.
//
// # Core Types
//
// Device is a switch reached by the collector, identified by the hostname or
// address the operator supplied. It owns an ordered list of Interface records.
//
// MacBinding is one row of a device's MAC address table: a hardware address
// learned on a local interface.
//
// Link is an inferred connection between two (device, interface) endpoints.
// Links hold endpoints by value so inference stays a pure function of the
// collected records.
//
// TopologyGraph is the node/edge exchange document consumed by the graph page.
//
// # Errors
//
// SessionError and ParseError are recorded per device or per row and never
// abort a run. AssemblyContractViolation is the only fatal kind; it means an
// earlier stage produced structurally invalid data.
package domain

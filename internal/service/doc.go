// Package service runs the end-to-end topology pipeline.
//
// A run collects every device, waits for all of them, infers links from the
// devices that produced data, assembles the graph and replaces the output
// document. Runs are recorded in the history repository when one is
// configured, and progress is published on an EventBus.
//
// A run only fails outright when the assembler reports a contract violation
// or the document cannot be written. When every device failed the empty
// graph is still written and ErrAllDevicesFailed is returned alongside the
// result.
package service

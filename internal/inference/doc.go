// Package inference correlates MAC address tables across devices to infer
// which interface of which switch connects to which other switch.
//
// The engine is a global join over every device record and must only run once
// collection has finished for all devices. It never fails on ambiguous
// evidence; ambiguity is reported as a Diagnostic and resolved by omitting the
// link. Only structurally invalid records produce an error.
package inference

// Package repository defines the run history store.
//
// Each collect or replay run is recorded with its per-device outcome and
// the links it inferred, so operators can see when a device started failing
// or a link disappeared. The sqlite subpackage implements it on a single
// database file and migrates the schema on open.
package repository

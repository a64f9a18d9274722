// Package parser turns raw switch CLI output into structured device records.
//
// Parsing never aborts on a bad row. Every function returns what it could
// interpret together with a ParseError for each line it skipped, so callers
// can report partial success per device.
package parser

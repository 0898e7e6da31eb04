// Package logging builds slog loggers for einsync.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. Loggers write to stdout and, when a
// log directory is configured, to einsync.log inside it. Attr helpers and
// standardized field keys keep log output consistent across packages.
package logging

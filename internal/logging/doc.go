// Package logging constructs the slog loggers used across Shelfgap.
//
// Two output formats are supported: a compact console format
// (ts LEVEL component: msg key=value) and line-delimited JSON. Components
// attach themselves with logger.With("component", name) and the console
// handler folds that attribute into the message prefix.
package logging

// Package logging assembles structured slog loggers and formatting helpers
// used across bingwall components.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes typed attribute helpers so components tag log
// lines with the same keys (component, market, phase, correlation IDs). The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape and routing guarantees as the rest
// of the system.
package logging

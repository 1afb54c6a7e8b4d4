// Package logging builds the slog loggers used across pawpress.
//
// Two output formats are supported: a console handler for interactive runs
// (timestamp, level, component prefix, flattened key=value attrs) and a JSON
// handler for scheduler-driven runs. Component loggers carry a standardized
// "component" attribute so a single pipeline run can be filtered per
// subsystem.
package logging

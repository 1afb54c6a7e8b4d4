// Package main hosts the pawpress CLI entrypoint and command graph.
//
// The Cobra-based command tree covers production runs, upload retries, status
// and audit views, notification checks, and configuration scaffolding. It
// centralizes configuration resolution and collaborator wiring so subcommands
// stay declarative; the pipeline itself lives in internal/workflow and the
// packages underneath it.
package main

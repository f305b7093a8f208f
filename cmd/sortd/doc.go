// Package main hosts the sortd CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into calls
// against the organize and undo engines, run-history queries, preflight
// checks, and rules-document scaffolding. It centralizes rules resolution,
// logger construction, and manifest locking so subcommands can focus on
// user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main

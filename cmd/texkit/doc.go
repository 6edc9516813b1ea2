// Package main hosts the texkit CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces the maintenance orchestrator,
// the structured-config store, the font-metric builder, the script
// runner, and toolchain diagnostics. It centralizes configuration
// resolution, session construction, and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the
// internal packages first, then surface it through dedicated commands
// or flags here.
package main

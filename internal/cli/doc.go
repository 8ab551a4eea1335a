// Package cli implements the farmq command-line interface.
//
// The package is organized around Cobra commands, with each command
// delegating to the monitor package for the actual work. Configuration
// is assembled once per invocation, layering sources by precedence:
//
//	defaults < config file < FARMQ_* environment < flags
//
// The root command runs a one-shot query: discover the scheduler, ingest
// the stats broadcast, and print the node table with a summary line.
// Subcommands:
//
//	farmq watch        - Live dashboard, refreshed from the stream
//	farmq config init  - Write a commented default config file
//	farmq version      - Print version information
//	farmq completion   - Generate shell completion scripts
//
// Exit codes are part of the interface: 0 success, 1 argument errors,
// 2 connection failures, 3 no usable data, 4 transliteration failures
// under --strict-ascii. Diagnostics go to stderr; only results go to
// stdout, so scripted callers can consume the output directly.
package cli

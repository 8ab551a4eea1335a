// Package ui renders farmq's terminal output: the aligned node table,
// the summary line, and color handling.
package ui

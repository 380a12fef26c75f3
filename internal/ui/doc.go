// Package ui holds the colour themes shared by the CLI, the REPL, the
// terminal plot and the TUI dashboard. Colours are disabled by --no-color
// or the NO_COLOR environment variable.
package ui

package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/farmq/farmq/internal/errors"
)

// Semantic colors for status indication, ANSI codes for broad terminal
// compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
	ColorMuted   lipgloss.Color = "8" // Gray (bright black)
)

// ApplyColorMode configures the global lipgloss color profile from the
// --color flag. "auto" disables color when stdout is not a terminal.
func ApplyColorMode(mode string) error {
	switch mode {
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI)
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "auto", "":
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	default:
		return errors.New(errors.ErrArgs,
			fmt.Sprintf("Unknown color mode '%s'", mode),
			"Use --color auto, always, or never.")
	}
	return nil
}

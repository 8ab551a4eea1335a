package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// RenderSummary formats the trailing summary line. In brief mode only the
// bare core count is produced, for scripting.
func RenderSummary(nodeCount, coreCount int, brief bool) string {
	if brief {
		return strconv.Itoa(coreCount)
	}
	bold := lipgloss.NewStyle().Bold(true)
	return fmt.Sprintf("%s node(s), %s core(s) total.",
		bold.Render(strconv.Itoa(nodeCount)),
		bold.Render(strconv.Itoa(coreCount)))
}

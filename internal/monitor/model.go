package monitor

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/farmq/farmq/internal/config"
	"github.com/farmq/farmq/internal/errors"
	"github.com/farmq/farmq/internal/stats"
	"github.com/farmq/farmq/internal/ui"
)

var (
	watchTitleStyle  = lipgloss.NewStyle().Bold(true)
	watchMutedStyle  = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	watchErrorStyle  = lipgloss.NewStyle().Foreground(ui.ColorError)
	watchStatusStyle = lipgloss.NewStyle().Foreground(ui.ColorInfo)
)

// WatchModel is the Bubble Tea model for the live dashboard. It renders
// the same node table as the one-shot query, refreshed on every snapshot
// from the streaming session.
type WatchModel struct {
	opts     config.Options
	renderer *ui.Renderer
	spin     spinner.Model

	connected  bool
	records    []stats.NodeRecord
	lastUpdate time.Time
	done       bool
	err        error
	quitting   bool
}

// NewWatchModel creates the dashboard model. The renderer carries the
// shaping configuration; the display filters come from opts.
func NewWatchModel(opts config.Options, renderer *ui.Renderer) WatchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ui.ColorInfo)
	return WatchModel{
		opts:     opts,
		renderer: renderer,
		spin:     sp,
	}
}

// Err returns the session error, if any, once the program has exited.
func (m WatchModel) Err() error {
	return m.err
}

// Init starts the discovery spinner.
func (m WatchModel) Init() tea.Cmd {
	return m.spin.Tick
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		if m.connected {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case connectedMsg:
		m.connected = true
		return m, nil

	case snapshotMsg:
		m.records = msg.records
		m.lastUpdate = time.Now()
		return m, nil

	case sessionDoneMsg:
		m.done = true
		m.err = msg.err
		// Leave the last table on screen until the user quits.
		return m, nil
	}

	return m, nil
}

// View renders the dashboard.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(watchTitleStyle.Render("farmq watch"))
	sb.WriteString("\n\n")

	switch {
	case !m.connected && !m.done:
		sb.WriteString(m.spin.View())
		sb.WriteString(" Discovering scheduler...")
		sb.WriteString("\n")
	case len(m.records) == 0:
		if !m.done {
			sb.WriteString(watchMutedStyle.Render("Waiting for node stats..."))
			sb.WriteString("\n")
		}
	default:
		sb.WriteString(m.renderTable())
	}

	if m.err != nil {
		sb.WriteString("\n")
		sb.WriteString(watchErrorStyle.Render(m.err.Error()))
		sb.WriteString("\n")
	} else if m.done {
		sb.WriteString("\n")
		sb.WriteString(watchStatusStyle.Render("Session ended by the scheduler."))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(watchMutedStyle.Render("q: quit"))
	sb.WriteString("\n")
	return sb.String()
}

// renderTable runs the records through the same aggregation and layout as
// the one-shot query.
func (m WatchModel) renderTable() string {
	visible, summary, err := Aggregate(m.records, m.opts.FilterOffline, m.opts.FilterNoRemote)
	if err != nil {
		if errors.IsCode(err, errors.ErrNoData) {
			return watchMutedStyle.Render("All nodes are currently filtered out.") + "\n"
		}
		return watchErrorStyle.Render(err.Error()) + "\n"
	}

	table, err := m.renderer.Render(TableHeaders(), TableCells(visible), m.opts.Plain, m.opts.ASCIIOnly)
	if err != nil {
		return watchErrorStyle.Render(err.Error()) + "\n"
	}

	var sb strings.Builder
	sb.WriteString(table)
	sb.WriteString("\n")
	sb.WriteString(ui.RenderSummary(summary.NodeCount, summary.CoreCount, false))
	sb.WriteString("\n")
	if !m.lastUpdate.IsZero() {
		sb.WriteString(watchMutedStyle.Render("Updated " + m.lastUpdate.Format("15:04:05")))
		sb.WriteString("\n")
	}
	return sb.String()
}

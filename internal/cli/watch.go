package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/farmq/farmq/internal/errors"
	"github.com/farmq/farmq/internal/monitor"
	"github.com/farmq/farmq/internal/sched"
	"github.com/farmq/farmq/internal/textshape"
	"github.com/farmq/farmq/internal/ui"
)

// watchCmd runs the live dashboard.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live node dashboard, refreshed from the stats stream",
	Long: `Open an interactive dashboard that stays connected to the scheduler
and redraws the node table as stats arrive.

Keyboard shortcuts:
  q / Ctrl+C  Quit

Examples:
  farmq watch
  farmq watch --no-offline
  farmq watch --scheduler 10.1.2.3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, log, err := setup(cmd)
		if err != nil {
			return err
		}

		renderer := ui.NewRenderer(textshape.New(), opts.StrictASCII)
		model := monitor.NewWatchModel(opts, renderer)
		program := tea.NewProgram(model)

		go func() {
			_ = monitor.Watch(sched.NewNetProvider(log), opts, log, program.Send)
		}()

		final, err := program.Run()
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConnect,
				"The dashboard terminated unexpectedly",
				"Check terminal compatibility, or use the one-shot query instead.")
		}
		if m, ok := final.(monitor.WatchModel); ok {
			return m.Err()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

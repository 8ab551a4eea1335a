package cli

import (
	"fmt"
	"io"

	"github.com/farmq/farmq/internal/config"
	"github.com/farmq/farmq/internal/logger"
	"github.com/farmq/farmq/internal/monitor"
	"github.com/farmq/farmq/internal/sched"
	"github.com/farmq/farmq/internal/textshape"
	"github.com/farmq/farmq/internal/ui"
)

// runQuery executes one monitoring pass: connect, ingest the broadcast,
// aggregate, and print the table and summary to out.
func runQuery(provider sched.Provider, opts config.Options, log logger.Logger, out io.Writer) error {
	connector := monitor.NewConnector(provider, opts, log)
	channel, err := connector.Connect()
	if err != nil {
		return err
	}
	defer channel.Close()

	records, err := monitor.NewIngestor(opts.RecvTimeout, log).Run(channel)
	if err != nil {
		return err
	}

	visible, summary, err := monitor.Aggregate(records, opts.FilterOffline, opts.FilterNoRemote)
	if err != nil {
		return err
	}

	if !opts.NoTable && !opts.Brief {
		renderer := ui.NewRenderer(textshape.New(), opts.StrictASCII)
		table, err := renderer.Render(monitor.TableHeaders(), monitor.TableCells(visible), opts.Plain, opts.ASCIIOnly)
		if err != nil {
			return err
		}
		fmt.Fprint(out, table)
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, ui.RenderSummary(summary.NodeCount, summary.CoreCount, opts.Brief))
	return nil
}

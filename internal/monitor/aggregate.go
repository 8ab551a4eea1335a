package monitor

import (
	"strconv"

	"github.com/farmq/farmq/internal/errors"
	"github.com/farmq/farmq/internal/stats"
	"github.com/farmq/farmq/internal/ui"
)

// Summary is the bottom-line view of a record set.
type Summary struct {
	NodeCount int // nodes surviving the display filters
	CoreCount int // remote-usable cores, independent of display filters
}

// Aggregate filters and summarizes the accepted records. The core total
// always excludes offline and no-remote nodes, whatever the display
// filters say; the filters only decide which nodes are shown and counted.
// An empty record set and an everything-filtered set are reported as
// distinct no-usable-data failures.
func Aggregate(records []stats.NodeRecord, filterOffline, filterNoRemote bool) ([]stats.NodeRecord, Summary, error) {
	if len(records) == 0 {
		return nil, Summary{}, errors.New(errors.ErrNoData,
			"No node data received from the scheduler",
			"The farm may be empty, or the scheduler may not be broadcasting stats.")
	}

	var visible []stats.NodeRecord
	summary := Summary{}
	for _, rec := range records {
		if !rec.NoRemote && !rec.Offline {
			summary.CoreCount += int(rec.MaxJobs)
		}
		if filterOffline && rec.Offline {
			continue
		}
		if filterNoRemote && rec.NoRemote {
			continue
		}
		visible = append(visible, rec)
	}
	summary.NodeCount = len(visible)

	if len(visible) == 0 {
		return nil, Summary{}, errors.New(errors.ErrNoData,
			"Every node was excluded by the active filters",
			"Drop --no-offline or --no-noremote to see the remaining nodes.")
	}
	return visible, summary, nil
}

// TableHeaders describes the fixed 7-column node table.
func TableHeaders() []ui.Header {
	return []ui.Header{
		{Title: "Node#", Align: ui.AlignRight},
		{Title: "Offline?", Align: ui.AlignCenter},
		{Title: "No-remote?", Align: ui.AlignCenter},
		{Title: "Name", Align: ui.AlignLeft, Shaped: true},
		{Title: "IP", Align: ui.AlignLeft},
		{Title: "Cores", Align: ui.AlignRight},
		{Title: "Platform", Align: ui.AlignLeft, Shaped: true},
	}
}

// TableCells flattens records into row-major cells for TableHeaders.
func TableCells(records []stats.NodeRecord) []string {
	cells := make([]string, 0, len(records)*7)
	for _, rec := range records {
		cells = append(cells,
			strconv.FormatUint(uint64(rec.HostID), 10),
			yesNo(rec.Offline),
			yesNo(rec.NoRemote),
			rec.Name,
			rec.IP,
			strconv.FormatUint(uint64(rec.MaxJobs), 10),
			rec.Platform,
		)
	}
	return cells
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

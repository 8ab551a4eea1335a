package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmq/farmq/internal/errors"
	"github.com/farmq/farmq/internal/stats"
)

func record(hostID uint32, name string) stats.NodeRecord {
	return stats.NodeRecord{
		HostID:   hostID,
		Name:     name,
		IP:       "10.0.0.1",
		Platform: "linux",
		MaxJobs:  4,
	}
}

func TestAggregateCoreCountExcludesUnusableNodes(t *testing.T) {
	offline := record(3, "gamma")
	offline.Offline = true
	offline.MaxJobs = 32

	records := []stats.NodeRecord{record(1, "alpha"), record(2, "beta"), offline}

	visible, summary, err := Aggregate(records, true, false)
	require.NoError(t, err)
	assert.Len(t, visible, 2)
	assert.Equal(t, 2, summary.NodeCount)
	assert.Equal(t, 8, summary.CoreCount, "offline cores never count, filtered or not")
}

func TestAggregateFiltersAffectNodeCountOnly(t *testing.T) {
	offline := record(3, "gamma")
	offline.Offline = true
	offline.MaxJobs = 32
	noRemote := record(4, "delta")
	noRemote.NoRemote = true
	noRemote.MaxJobs = 16

	records := []stats.NodeRecord{record(1, "alpha"), record(2, "beta"), offline, noRemote}

	// No filters: everything shown, cores still exclude the unusable.
	visible, summary, err := Aggregate(records, false, false)
	require.NoError(t, err)
	assert.Len(t, visible, 4)
	assert.Equal(t, 4, summary.NodeCount)
	assert.Equal(t, 8, summary.CoreCount)

	// Both filters: fewer nodes, same core total.
	visible, summary, err = Aggregate(records, true, true)
	require.NoError(t, err)
	assert.Len(t, visible, 2)
	assert.Equal(t, 2, summary.NodeCount)
	assert.Equal(t, 8, summary.CoreCount)
}

func TestAggregateEmptyRecordsIsNoData(t *testing.T) {
	_, _, err := Aggregate(nil, false, false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNoData))
	assert.Contains(t, err.Error(), "No node data received")
}

func TestAggregateAllFilteredIsNoData(t *testing.T) {
	offline := record(1, "alpha")
	offline.Offline = true

	_, _, err := Aggregate([]stats.NodeRecord{offline}, true, false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNoData))
	assert.Contains(t, err.Error(), "excluded by the active filters")
}

func TestAggregatePreservesRecordOrder(t *testing.T) {
	records := []stats.NodeRecord{record(2, "beta"), record(1, "alpha"), record(3, "gamma")}

	visible, _, err := Aggregate(records, false, false)
	require.NoError(t, err)
	assert.Equal(t, "beta", visible[0].Name)
	assert.Equal(t, "alpha", visible[1].Name)
	assert.Equal(t, "gamma", visible[2].Name)
}

func TestTableCellsLayout(t *testing.T) {
	rec := record(7, "alpha")
	rec.NoRemote = true

	cells := TableCells([]stats.NodeRecord{rec})
	require.Len(t, cells, len(TableHeaders()))
	assert.Equal(t, []string{"7", "no", "yes", "alpha", "10.0.0.1", "4", "linux"}, cells)
}

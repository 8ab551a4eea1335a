package monitor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmq/farmq/internal/config"
	"github.com/farmq/farmq/internal/errors"
	"github.com/farmq/farmq/internal/logger"
	"github.com/farmq/farmq/internal/sched"
	"github.com/farmq/farmq/internal/sched/schedtest"
	"github.com/farmq/farmq/internal/stats"
	"github.com/farmq/farmq/internal/textshape"
	"github.com/farmq/farmq/internal/ui"
)

func watchOptions() config.Options {
	opts := config.Default()
	opts.ConnectTimeout = 2 * time.Second
	opts.RecvTimeout = 50 * time.Millisecond
	return opts
}

func runWatch(t *testing.T, ch *schedtest.FakeChannel) ([]tea.Msg, error) {
	t.Helper()
	provider := &schedtest.FakeProvider{
		Session: &schedtest.FakeSession{Chan: ch},
	}
	var msgs []tea.Msg
	err := Watch(provider, watchOptions(), logger.Noop(), func(m tea.Msg) {
		msgs = append(msgs, m)
	})
	return msgs, err
}

func TestWatchStreamsSnapshotsUntilSessionEnd(t *testing.T) {
	ch := &schedtest.FakeChannel{
		Polls: []sched.PollResult{
			sched.PollTimeout, // quiet stretch must not end the session
			sched.PollReady,
			sched.PollReady,
		},
		Batches: [][]*sched.Message{
			{schedtest.StatsMsg(1, blob("alpha")), schedtest.StatsMsg(2, blob("beta"))},
			{schedtest.EndMsg()},
		},
	}

	msgs, err := runWatch(t, ch)
	require.NoError(t, err)
	require.Len(t, msgs, 3)

	assert.IsType(t, connectedMsg{}, msgs[0])

	snap, ok := msgs[1].(snapshotMsg)
	require.True(t, ok)
	require.Len(t, snap.records, 2)
	assert.Equal(t, "alpha", snap.records[0].Name)

	done, ok := msgs[2].(sessionDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.err)
	assert.True(t, ch.Closed)
}

func TestWatchReportsConnectFailure(t *testing.T) {
	provider := &schedtest.FakeProvider{
		Err: errors.New(errors.ErrConnect, "no route", ""),
	}

	var msgs []tea.Msg
	err := Watch(provider, watchOptions(), logger.Noop(), func(m tea.Msg) {
		msgs = append(msgs, m)
	})
	require.Error(t, err)
	require.Len(t, msgs, 1)
	done, ok := msgs[0].(sessionDoneMsg)
	require.True(t, ok)
	assert.Error(t, done.err)
}

func TestWatchReportsPollError(t *testing.T) {
	ch := &schedtest.FakeChannel{
		Polls: []sched.PollResult{sched.PollReady, sched.PollError},
		Batches: [][]*sched.Message{
			{schedtest.StatsMsg(1, blob("alpha"))},
		},
	}

	msgs, err := runWatch(t, ch)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConnect))

	done, ok := msgs[len(msgs)-1].(sessionDoneMsg)
	require.True(t, ok)
	assert.Error(t, done.err)
}

func TestWatchSkipsSnapshotWhenNothingChanged(t *testing.T) {
	ch := &schedtest.FakeChannel{
		Polls: []sched.PollResult{sched.PollReady, sched.PollReady, sched.PollReady},
		Batches: [][]*sched.Message{
			{schedtest.StatsMsg(2, blob("alpha"))},
			{schedtest.StatsMsg(2, blob("alpha")), schedtest.StatsMsg(1, blob("stale"))},
			{schedtest.EndMsg()},
		},
	}

	msgs, err := runWatch(t, ch)
	require.NoError(t, err)

	snapshots := 0
	for _, m := range msgs {
		if _, ok := m.(snapshotMsg); ok {
			snapshots++
		}
	}
	assert.Equal(t, 1, snapshots, "stale rebroadcasts must not trigger a redraw")
}

func newTestWatchModel() WatchModel {
	opts := watchOptions()
	renderer := ui.NewRenderer(textshape.New(), false)
	return NewWatchModel(opts, renderer)
}

func TestWatchModelShowsDiscoverySpinner(t *testing.T) {
	m := newTestWatchModel()
	assert.Contains(t, m.View(), "Discovering scheduler")
}

func TestWatchModelRendersSnapshot(t *testing.T) {
	m := newTestWatchModel()

	next, _ := m.Update(connectedMsg{})
	m = next.(WatchModel)
	assert.Contains(t, m.View(), "Waiting for node stats")

	next, _ = m.Update(snapshotMsg{records: []stats.NodeRecord{record(1, "alpha"), record(2, "beta")}})
	m = next.(WatchModel)

	view := m.View()
	assert.Contains(t, view, "alpha")
	assert.Contains(t, view, "node(s)")
	assert.Contains(t, view, "core(s) total")
}

func TestWatchModelShowsSessionEnd(t *testing.T) {
	m := newTestWatchModel()

	next, _ := m.Update(connectedMsg{})
	m = next.(WatchModel)
	next, _ = m.Update(sessionDoneMsg{})
	m = next.(WatchModel)

	assert.Contains(t, m.View(), "Session ended by the scheduler")
	assert.NoError(t, m.Err())
}

func TestWatchModelShowsSessionError(t *testing.T) {
	m := newTestWatchModel()

	failure := errors.New(errors.ErrConnect, "Reading from the scheduler failed", "")
	next, _ := m.Update(sessionDoneMsg{err: failure})
	m = next.(WatchModel)

	assert.Contains(t, m.View(), "Reading from the scheduler failed")
	assert.Error(t, m.Err())
}

func TestWatchModelQuitsOnQ(t *testing.T) {
	m := newTestWatchModel()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(WatchModel)

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}
